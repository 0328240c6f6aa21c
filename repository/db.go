package repository

import (
	"fmt"
	"sync"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"libms/config"
)

var db *gorm.DB
var dbOnce sync.Once

func InitDatabase(dbConfig config.DatabaseConfig) *gorm.DB {
	dbOnce.Do(
		func() {
			dsn := fmt.Sprintf(
				"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				dbConfig.Username,
				dbConfig.Password,
				dbConfig.Host,
				dbConfig.Port,
				dbConfig.DatabaseName,
			)
			var err error
			db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
			if err != nil {
				panic(fmt.Errorf("failed to connect database, error: %v", err))
			}
			if err = Migrate(db); err != nil {
				panic(fmt.Errorf("failed to migrate database, error: %v", err))
			}
		},
	)

	return db
}

// Migrate is separate from InitDatabase so tests can run it against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{}, &Book{}, &BorrowRecord{})
}
