package migration

import (
	accountdomain "github.com/smallbiznis/booksd/internal/account/domain"
	authdomain "github.com/smallbiznis/booksd/internal/auth/domain"
	bookdomain "github.com/smallbiznis/booksd/internal/book/domain"
	commoditydomain "github.com/smallbiznis/booksd/internal/commodity/domain"
	orgdomain "github.com/smallbiznis/booksd/internal/organization/domain"
	taxdomain "github.com/smallbiznis/booksd/internal/tax/domain"
	userroledomain "github.com/smallbiznis/booksd/internal/userrole/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB) error {
		if conn.Dialector.Name() != "postgres" {
			// Versioned migrations are written for postgres. Other
			// dialects are development-only and take the gorm schema.
			return conn.AutoMigrate(
				&orgdomain.Organization{},
				&authdomain.User{},
				&authdomain.Session{},
				&userroledomain.UserRole{},
				&bookdomain.Book{},
				&commoditydomain.Commodity{},
				&accountdomain.Account{},
				&bookdomain.BookSettings{},
				&taxdomain.TaxTable{},
				&taxdomain.TaxTableEntry{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
