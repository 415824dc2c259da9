package database

// Import all drivers to register them
import (
	_ "github.com/northway/migrator/drivers/postgresql"
	_ "github.com/northway/migrator/drivers/sqlite"
)
