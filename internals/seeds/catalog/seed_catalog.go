package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	bookModel "medialibrary_backend/internals/features/catalog/books/model"
	bookRepo "medialibrary_backend/internals/features/catalog/books/repository"
	branchModel "medialibrary_backend/internals/features/catalog/branches/model"
	branchRepo "medialibrary_backend/internals/features/catalog/branches/repository"
	helper "medialibrary_backend/internals/helpers"

	"github.com/bytedance/sonic"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BranchSeed struct {
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	PostalCode   string          `json:"postal_code"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email"`
	OpeningHours json.RawMessage `json:"opening_hours"`
}

type BookSeed struct {
	Title           string         `json:"title"`
	Author          string         `json:"author"`
	ISBN            string         `json:"isbn"`
	Publisher       string         `json:"publisher"`
	PublicationYear int            `json:"publication_year"`
	Category        string         `json:"category"`
	Pages           int            `json:"pages"`
	Copies          map[string]int `json:"copies"` // nama cabang -> jumlah eksemplar
}

type CatalogSeed struct {
	Branches []BranchSeed `json:"branches"`
	Books    []BookSeed   `json:"books"`
}

type Result struct {
	Branches int
	Books    int
	Copies   int
}

// SeedCatalog idempoten: cabang by nama, buku by ISBN. Buku yang sudah ada tidak ditambah eksemplarnya.
func SeedCatalog(ctx context.Context, db *gorm.DB, raw []byte) (Result, error) {
	var in CatalogSeed
	if err := sonic.Unmarshal(raw, &in); err != nil {
		return Result{}, err
	}

	var res Result
	err := helper.RunInTx(ctx, db, func(tx *gorm.DB) error {
		res = Result{}
		branchIDs := map[string]branchModel.BranchModel{}

		for _, b := range in.Branches {
			existing, err := branchRepo.FindByName(tx, b.Name)
			if err == nil {
				log.Printf("ℹ️ [SEED] cabang '%s' sudah ada, dilewati.", b.Name)
				branchIDs[b.Name] = *existing
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			m := branchModel.BranchModel{
				BranchName:         b.Name,
				BranchAddress:      b.Address,
				BranchCity:         b.City,
				BranchPostalCode:   b.PostalCode,
				BranchPhone:        b.Phone,
				BranchEmail:        b.Email,
				BranchOpeningHours: datatypes.JSON(b.OpeningHours),
			}
			if err := branchRepo.CreateBranch(tx, &m); err != nil {
				return err
			}
			branchIDs[b.Name] = m
			res.Branches++
		}

		for _, b := range in.Books {
			if _, err := bookRepo.FindByISBN(tx, b.ISBN); err == nil {
				log.Printf("ℹ️ [SEED] buku ISBN %s sudah ada, dilewati.", b.ISBN)
				continue
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			m := bookModel.BookModel{
				BookTitle:           b.Title,
				BookAuthor:          b.Author,
				BookISBN:            strPtr(b.ISBN),
				BookPublisher:       strPtr(b.Publisher),
				BookPublicationYear: intPtr(b.PublicationYear),
				BookCategory:        strPtr(b.Category),
				BookPages:           intPtr(b.Pages),
			}
			if err := bookRepo.CreateBook(tx, &m); err != nil {
				return err
			}
			res.Books++

			for name, n := range b.Copies {
				br, ok := branchIDs[name]
				if !ok {
					log.Printf("⚠️ [SEED] cabang '%s' untuk buku %s tidak dikenal", name, b.ISBN)
					continue
				}
				created, err := bookRepo.AddCopies(tx, m.BookID, br.BranchID, n)
				if err != nil {
					return err
				}
				res.Copies += len(created)
			}
		}
		return nil
	}, helper.WithLabel("seed.catalog"))
	if err != nil {
		return Result{}, err
	}

	log.Printf("✅ [SEED] katalog: %d cabang, %d buku, %d eksemplar baru", res.Branches, res.Books, res.Copies)
	return res, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func intPtr(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
