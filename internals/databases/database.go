package database

import (
	"fmt"
	"log"
	"strings"
	"time"

	"medialibrary_backend/internals/configs"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

func ConnectDB() {
	driver := strings.ToLower(configs.GetEnv("DB_DRIVER", DriverPostgres))
	log.Printf("🔌 Koneksi ke database (%s)...", driver)

	db, err := Open(driver)
	if err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

// Open membuka koneksi gorm sesuai driver tanpa menyentuh DB global.
func Open(driver string) (*gorm.DB, error) {
	cfg := &gorm.Config{Logger: configs.NewGormLogger()}

	switch driver {
	case DriverPostgres:
		// Kalau pakai PgBouncer, arahkan host/port ke PgBouncer dan biarkan PreferSimpleProtocol=true
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=medialibrary&options=-c statement_timeout=%d",
			configs.GetEnv("DB_USER"),
			configs.GetEnv("DB_PASSWORD"),
			configs.GetEnv("DB_HOST"),
			configs.GetEnv("DB_PORT", "5432"),
			configs.GetEnv("DB_NAME"),
			configs.GetEnv("DB_SSLMODE", "require"),
			configs.GetEnvInt("DB_STATEMENT_TIMEOUT_MS", 3000),
		)
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
		}), cfg)

	case DriverSqlite:
		return gorm.Open(sqlite.Open(SqliteDSN(configs.GetEnv("DB_PATH", "medialibrary.db"))), cfg)

	default:
		return nil, fmt.Errorf("DB_DRIVER tidak dikenal: %q", driver)
	}
}

// SqliteDSN menambahkan busy timeout + foreign keys ke path file sqlite.
func SqliteDSN(path string) string {
	return path + "?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL"
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	if DB.Dialector.Name() == DriverSqlite {
		// sqlite: satu writer, cukup satu koneksi
		sqlDB.SetMaxOpenConns(1)
		return
	}
	// ⚖️ Sesuaikan dengan limit Supabase/PgBouncer
	sqlDB.SetMaxOpenConns(configs.GetEnvInt("DB_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(configs.GetEnvInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxIdleTime(configs.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", 60*time.Second))
	sqlDB.SetConnMaxLifetime(configs.GetEnvDuration("DB_CONN_MAX_LIFETIME", 10*time.Minute))
}

func WarmUpQueries() {
	// jalankan ringan supaya koneksi/pool “keisi” & siap
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := Ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
			return
		}
		// query katalog paling sering dipakai
		if err := DB.Exec("SELECT 1 FROM books LIMIT 1").Error; err != nil {
			log.Printf("warm-up query err: %v", err)
		}
	}()
}

func Ping() error {
	if DB == nil {
		return fmt.Errorf("database belum terkoneksi")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
