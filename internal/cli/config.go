package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/julianstephens/dailyos/internal/constants"
	"github.com/julianstephens/dailyos/internal/keyring"
	"github.com/julianstephens/dailyos/internal/storage/postgres"
)

// ConfigSetConnectionCmd stores a PostgreSQL connection string in the OS keyring.
type ConfigSetConnectionCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store in the keyring."`
}

func (cmd *ConfigSetConnectionCmd) Run(ctx *Context) error {
	if !isPostgresConfig(cmd.ConnectionString) {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}
	if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is encrypted, so a password is acceptable here.
		ctx.println("⚠️  Warning: Connection string contains embedded credentials.")
		ctx.println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	ctx.println("✓ Connection string stored successfully in OS keyring")
	ctx.println("  dailyos will use it whenever --config is left at its default")
	return nil
}

type ConfigShowCmd struct{}

func (cmd *ConfigShowCmd) Run(ctx *Context) error {
	ctx.printf("Storage: %s\n", ctx.Store.GetConfigPath())
	ctx.printf("User:    %s\n", ctx.UserID)
	ctx.printf("Zone:    %s\n", ctx.Location)

	if env := os.Getenv(constants.EnvDBConnection); env != "" {
		ctx.printf("%s: %s\n", constants.EnvDBConnection, maskPassword(env))
	}
	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		ctx.printf("Keyring: %s\n", maskPassword(connStr))
	case errors.Is(err, keyring.ErrNotFound):
		ctx.println("Keyring: no connection string stored")
	default:
		ctx.println("Keyring: unavailable")
	}
	return nil
}

type ConfigClearConnectionCmd struct{}

func (cmd *ConfigClearConnectionCmd) Run(ctx *Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.println("✓ Connection string deleted from OS keyring")
	return nil
}

// maskPassword hides the password of a URL or key=value connection string.
func maskPassword(connStr string) string {
	if postgres.IsConnString(connStr) {
		if u, err := url.Parse(connStr); err == nil {
			return u.Redacted()
		}
		return connStr
	}

	parts := strings.Fields(connStr)
	for i, part := range parts {
		if strings.HasPrefix(strings.ToLower(part), "password=") {
			parts[i] = "password=xxxxx"
		}
	}
	return strings.Join(parts, " ")
}
