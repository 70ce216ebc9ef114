package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ManuelReschke/PixelPress/internal/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// updateExisting updates every column of model except CreatedAt. Unlike
// Save it never falls back to an INSERT. MySQL reports unchanged rows as not
// affected, so a zero count is double checked before returning ErrNotFound.
func updateExisting(db *gorm.DB, model any, id uint) error {
	res := db.Model(model).Select("*").Omit(clause.Associations, "CreatedAt").Updates(model)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// translateError maps driver errors onto the apperrors taxonomy.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound
	case isDuplicateKey(err):
		return fmt.Errorf("%w: %v", apperrors.ErrConflict, err)
	}
	return err
}

// isDuplicateKey detects unique violations for MySQL, Postgres and SQLite
// without importing the individual driver error types.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

// likeEscaper escapes LIKE wildcards using '!' which every supported
// dialect accepts in an ESCAPE clause.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}
