package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/franciscosanchezn/docky-api/internal/config"
	"github.com/franciscosanchezn/docky-api/internal/database"
	"github.com/franciscosanchezn/docky-api/internal/repository"
	"github.com/franciscosanchezn/docky-api/internal/services"
	"golang.org/x/term"
)

// readPassword is swapped out when stdin is not a terminal.
var readPassword = term.ReadPassword

func main() {
	// Parse command line flags
	name := flag.String("name", config.GetEnvWithDefault("ADMIN_NAME", "Admin"), "Admin display name")
	email := flag.String("email", config.GetEnvWithDefault("ADMIN_EMAIL", config.DefaultAdminEmail), "Admin email (must match ADMIN_EMAIL on the server)")
	driver := flag.String("db-driver", config.GetEnvWithDefault("DB_DRIVER", "sqlite"), "Database driver (sqlite or postgres)")
	dbPath := flag.String("db-path", config.GetEnvWithDefault("DB_PATH", "docky.db"), "SQLite database file")
	dbURL := flag.String("db-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	flag.Parse()

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		var err error
		password, err = promptPassword()
		if err != nil {
			log.Fatal("Failed to read password:", err)
		}
	}

	db, err := database.InitDatabase(database.DatabaseConfig{Driver: *driver, URL: *dbURL, Path: *dbPath, ConnectRetries: 1})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	admin, created, err := services.BootstrapAdmin(context.Background(), repository.NewUserRepository(db), *name, *email, password)
	if err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	if !created {
		fmt.Printf("Admin account already exists: %s (ID: %d)\n", admin.Email, admin.ID)
		return
	}
	fmt.Printf("✓ Admin account created: %s (ID: %d)\n", admin.Email, admin.ID)
	fmt.Println("\nLog in with:")
	fmt.Printf("curl -X POST http://localhost:8080/api/auth/login \\\n")
	fmt.Printf("  -H 'Content-Type: application/json' \\\n")
	fmt.Printf("  -d '{\"email\":\"%s\",\"password\":\"<password>\",\"user_type\":\"admin\"}'\n", admin.Email)
}

// promptPassword reads the password without echo, or a plain line when stdin
// is piped.
func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	fmt.Print("Admin password: ")
	raw, err := readPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
