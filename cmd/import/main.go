package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/sdsdc/bibliotheque/config"
	"github.com/sdsdc/bibliotheque/internal/jsonlog"
	"github.com/sdsdc/bibliotheque/repository/postgres"
)

// sheetName is the workbook sheet holding the catalog.
const sheetName = "Biblio"

// bookRow mirrors one cleaned spreadsheet row. Optional cells come through
// as nil so the insert stores NULL rather than empty strings.
type bookRow struct {
	entryID         int64
	title           string
	location        *string
	section         *string
	subtitle        *string
	author1         *string
	author2         *string
	publisher       *string
	publicationDate *time.Time
	isbn            *string
	format          *string
	pageCount       *int64
	summary         *string
	period          *string
	theme           *string
	majorEvent      *string
	geography       *string
	groupsActors    *string
	sources         *string
}

func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	var cfg config.Config
	cfg.Database.MaxOpenConns = 5
	cfg.Database.MaxIdleConns = 5
	cfg.Database.MaxIdleTime = "15m"
	cfg.Database.DSN = os.Getenv("BIBLIOTHEQUE_DB_DSN")

	var (
		excelPath     string
		migrationsDir string
		adminEmail    string
		adminPassword string
	)
	flag.StringVar(&cfg.Database.DSN, "db-dsn", cfg.Database.DSN, "PostgreSQL DSN")
	flag.StringVar(&excelPath, "file", "", "Path to the catalog workbook (.xlsm)")
	flag.StringVar(&migrationsDir, "migrations", "./migrations", "Directory holding the schema migrations")
	flag.StringVar(&adminEmail, "admin-email", "admin@library.com", "Default admin account email")
	flag.StringVar(&adminPassword, "admin-password", "", "Default admin account password")
	flag.Parse()

	if excelPath == "" {
		logger.PrintFatal(fmt.Errorf("missing required -file flag"), nil)
	}

	db, err := postgres.OpenDBConn(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", nil)

	err = applyMigrations(db, migrationsDir)
	if err != nil {
		logger.PrintFatal(err, map[string]string{"migrations": migrationsDir})
	}
	logger.PrintInfo("schema is up to date", nil)

	if adminPassword != "" {
		err = createDefaultAdmin(db, adminEmail, adminPassword)
		if err != nil {
			logger.PrintFatal(err, nil)
		}
		logger.PrintInfo("default admin account ensured", map[string]string{"email": adminEmail})
	}

	rows, err := readWorkbook(excelPath)
	if err != nil {
		logger.PrintFatal(err, map[string]string{"file": excelPath})
	}
	logger.PrintInfo("workbook read", map[string]string{
		"file":    excelPath,
		"records": strconv.Itoa(len(rows)),
	})

	inserted := 0
	for _, row := range rows {
		err := upsertBook(db, row)
		if err != nil {
			// A bad row is logged and skipped so one malformed record does
			// not abort the whole import.
			logger.PrintError(err, map[string]string{
				"entry_id": strconv.FormatInt(row.entryID, 10),
			})
			continue
		}
		inserted++
	}
	logger.PrintInfo("import finished", map[string]string{
		"imported": strconv.Itoa(inserted),
		"skipped":  strconv.Itoa(len(rows) - inserted),
	})
}

// applyMigrations executes every *.up.sql file in lexical order. The schema
// statements are all IF NOT EXISTS, so reruns are harmless.
func applyMigrations(db *sql.DB, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	for _, name := range files {
		script, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		_, err = db.Exec(string(script))
		if err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}
	return nil
}

func createDefaultAdmin(db *sql.DB, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING`
	_, err = db.Exec(query, email, string(hash), "Admin", "User", "admin")
	return err
}

// readWorkbook loads the catalog sheet and cleans its rows. Rows without an
// entry number or a title carry no usable record and are dropped.
func readWorkbook(path string) ([]bookRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rawRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheetName, err)
	}
	if len(rawRows) < 2 {
		return nil, fmt.Errorf("sheet %q holds no data rows", sheetName)
	}

	// Column positions come from the header row, so reordered columns in a
	// future workbook revision keep working.
	columns := make(map[string]int)
	for i, header := range rawRows[0] {
		columns[strings.TrimSpace(header)] = i
	}

	cell := func(row []string, header string) string {
		i, ok := columns[header]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var books []bookRow
	for _, raw := range rawRows[1:] {
		entryID, err := strconv.ParseInt(cell(raw, "Ent. SdSdC"), 10, 64)
		if err != nil {
			continue
		}
		title := cell(raw, "Titre complet de l'ouvrage")
		if title == "" {
			continue
		}
		books = append(books, bookRow{
			entryID:         entryID,
			title:           title,
			location:        optional(cell(raw, "Localisation")),
			section:         optional(cell(raw, "Section")),
			subtitle:        optional(cell(raw, "Sous titre")),
			author1:         optional(cell(raw, "Auteur 1")),
			author2:         optional(cell(raw, "auteur 2")),
			publisher:       optional(cell(raw, "Editeur")),
			publicationDate: parseDate(cell(raw, "Date de Publ.")),
			isbn:            optional(cell(raw, "ISBN")),
			format:          optional(cell(raw, "Format")),
			pageCount:       optionalInt(cell(raw, "nb pages")),
			summary:         optional(cell(raw, "résumé")),
			period:          optional(cell(raw, "Pérlode Hist")),
			theme:           optional(cell(raw, "Thématique Générale")),
			majorEvent:      optional(cell(raw, "Evt Majeur")),
			geography:       optional(cell(raw, "Géographie")),
			groupsActors:    optional(cell(raw, "Groupes et acteurs")),
			sources:         optional(cell(raw, "Sources")),
		})
	}
	return books, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(s string) *int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// parseDate accepts the formats seen in the workbook over the years: full
// dates, month-first exports, and a bare year.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	layouts := []string{"2006-01-02", "01-02-06", "02/01/2006", "01/02/2006", "2006"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func upsertBook(db *sql.DB, book bookRow) error {
	query := `
		INSERT INTO books (
			entry_id, location, section, title, subtitle, author_1, author_2,
			publisher, publication_date, isbn, format, page_count, summary,
			historical_period, general_theme, major_event, geography,
			groups_actors, sources
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19
		) ON CONFLICT (entry_id) DO UPDATE SET
			location = EXCLUDED.location,
			section = EXCLUDED.section,
			title = EXCLUDED.title,
			subtitle = EXCLUDED.subtitle,
			author_1 = EXCLUDED.author_1,
			author_2 = EXCLUDED.author_2,
			publisher = EXCLUDED.publisher,
			publication_date = EXCLUDED.publication_date,
			isbn = EXCLUDED.isbn,
			format = EXCLUDED.format,
			page_count = EXCLUDED.page_count,
			summary = EXCLUDED.summary,
			historical_period = EXCLUDED.historical_period,
			general_theme = EXCLUDED.general_theme,
			major_event = EXCLUDED.major_event,
			geography = EXCLUDED.geography,
			groups_actors = EXCLUDED.groups_actors,
			sources = EXCLUDED.sources,
			updated_at = CURRENT_TIMESTAMP`
	_, err := db.Exec(query,
		book.entryID, book.location, book.section, book.title, book.subtitle,
		book.author1, book.author2, book.publisher, book.publicationDate,
		book.isbn, book.format, book.pageCount, book.summary,
		book.period, book.theme, book.majorEvent, book.geography,
		book.groupsActors, book.sources,
	)
	return err
}
