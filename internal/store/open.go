package store

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gitlab.com/dirk.krummacker/contact-manager/internal/store/schema"
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open, New and Migrate.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Options are the connection parameters of the database.
type Options struct {
	Driver     string
	User       string
	Password   string
	Host       string
	Name       string
	SQLitePath string
}

// Open initializes and returns a database connection and verifies that it is usable.
func Open(ctx context.Context, opts Options) (*sql.DB, error) {
	dsn, err := dataSourceName(opts)
	if err != nil {
		return nil, err
	}
	sqlDB, err := sql.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", opts.Driver, err)
	}
	if opts.Driver == DriverSQLite {
		// A single writer avoids SQLITE_BUSY between pooled connections.
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s db: %w", opts.Driver, err)
	}
	return sqlDB, nil
}

func dataSourceName(opts Options) (string, error) {
	switch opts.Driver {
	case DriverMySQL:
		cfg := mysql.NewConfig()
		cfg.User = opts.User
		cfg.Passwd = opts.Password
		cfg.Net = "tcp"
		cfg.Addr = opts.Host
		cfg.DBName = opts.Name
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	case DriverSQLite:
		path := strings.TrimSpace(opts.SQLitePath)
		if path == "" {
			return "", fmt.Errorf("sqlite path is required")
		}
		return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// bindDriverName returns the name under which sqlx knows the placeholder style of the driver.
func bindDriverName(driverName string) (string, error) {
	switch driverName {
	case DriverMySQL:
		return "mysql", nil
	case DriverSQLite:
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driverName)
	}
}

// Migrate creates the contacts table if it does not exist yet.
func Migrate(ctx context.Context, sqlDB *sql.DB, driverName string) error {
	if _, err := bindDriverName(driverName); err != nil {
		return err
	}
	file, err := schema.FS.Open(driverName + ".sql")
	if err != nil {
		return fmt.Errorf("read %s schema: %w", driverName, err)
	}
	defer file.Close()
	if err := ExecScript(ctx, sqlDB, file); err != nil {
		return fmt.Errorf("apply %s schema: %w", driverName, err)
	}
	return nil
}

// ExecScript executes the SQL statements read from r one after another. A statement ends on
// the line that contains its terminating semicolon.
func ExecScript(ctx context.Context, sqlDB *sql.DB, r io.Reader) error {
	fileScanner := bufio.NewScanner(r)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	for fileScanner.Scan() {
		line := fileScanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			if _, err := sqlDB.ExecContext(ctx, builder.String()); err != nil {
				return err
			}
			builder = strings.Builder{}
		}
	}
	if err := fileScanner.Err(); err != nil {
		return err
	}
	if rest := strings.TrimSpace(builder.String()); rest != "" {
		if _, err := sqlDB.ExecContext(ctx, rest); err != nil {
			return err
		}
	}
	return nil
}
