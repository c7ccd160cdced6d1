package service

import (
	"errors"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

/* =========================================================
   Midtrans Client
========================================================= */

type CustomerInput struct {
	FirstName string
	Email     string
}

type SnapItem struct {
	OrderID   string
	AmountIDR int64
	Name      string
	Category  string
}

// SnapCreator membuat transaksi Snap; di test diganti fake.
type SnapCreator interface {
	CreateSnap(item SnapItem, cust CustomerInput) (token, redirectURL string, err error)
}

type MidtransSnap struct {
	client snap.Client
}

// NewMidtransSnap: useProduction=true untuk Production, false untuk Sandbox.
func NewMidtransSnap(serverKey string, useProduction bool) *MidtransSnap {
	m := &MidtransSnap{}
	if useProduction {
		m.client.New(serverKey, midtrans.Production)
	} else {
		m.client.New(serverKey, midtrans.Sandbox)
	}
	return m
}

func (m *MidtransSnap) CreateSnap(item SnapItem, cust CustomerInput) (string, string, error) {
	if item.AmountIDR <= 0 {
		return "", "", errors.New("invalid amount")
	}
	if strings.TrimSpace(item.OrderID) == "" {
		return "", "", errors.New("order_id is required")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  item.OrderID,
			GrossAmt: item.AmountIDR,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: cust.FirstName,
			Email: cust.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       item.OrderID,
				Price:    item.AmountIDR,
				Qty:      1,
				Name:     truncate(item.Name, 50),
				Category: item.Category,
			},
		},
	}

	resp, merr := m.client.CreateTransaction(req)
	if merr != nil {
		return "", "", merr
	}
	return resp.Token, resp.RedirectURL, nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
