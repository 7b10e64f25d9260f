/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package sqlstore implements storage/metastore.MetadataStore on top of
// gorm + the sqlite driver, following the Driver/Dialector idiom of
// github.com/nabbar/golib/database/gorm, narrowed to the one dialect
// Lamina needs: a gateway with no external database dependency.
package sqlstore

import (
	"context"
	"strings"

	gormdb "gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	drvsql "gorm.io/driver/sqlite"

	liberr "github.com/nabbar/golib/errors"

	"github.com/nabbar/lamina/storage/metastore"
	"github.com/nabbar/lamina/types"
)

// Store is a gorm/sqlite-backed MetadataStore.
type Store struct {
	db *gormdb.DB
}

var _ metastore.MetadataStore = (*Store)(nil)

// Open connects to dsn (a sqlite DSN, e.g. a file path or ":memory:")
// and ensures the object-row table exists.
func Open(dsn string) (*Store, liberr.Error) {
	db, err := gormdb.Open(drvsql.Open(dsn), &gormdb.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, errOpenFailed(err)
	}
	if err = db.AutoMigrate(&objectRow{}); err != nil {
		return nil, errMigrateFailed(err)
	}
	return &Store{db: db}, nil
}

// Upsert implements metastore.MetadataStore.
func (s *Store) Upsert(ctx context.Context, rec types.ObjectMeta) error {
	row := toRow(rec)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "bucket_name"}, {Name: "object_key"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return errQueryFailed(err)
	}
	return nil
}

// Delete implements metastore.MetadataStore.
func (s *Store) Delete(ctx context.Context, bucket, key string) error {
	err := s.db.WithContext(ctx).
		Where("bucket_name = ? AND object_key = ?", bucket, key).
		Delete(&objectRow{}).Error
	if err != nil {
		return errQueryFailed(err)
	}
	return nil
}

// Get implements metastore.MetadataStore.
func (s *Store) Get(ctx context.Context, bucket, key string) (types.ObjectMeta, bool, error) {
	var row objectRow
	err := s.db.WithContext(ctx).
		Where("bucket_name = ? AND object_key = ?", bucket, key).
		First(&row).Error
	if err != nil {
		if strings.Contains(err.Error(), "record not found") {
			return types.ObjectMeta{}, false, nil
		}
		return types.ObjectMeta{}, false, errQueryFailed(err)
	}
	return row.toObjectMeta(), true, nil
}

// List implements metastore.MetadataStore, ordering results by key.
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]types.ObjectMeta, error) {
	var rows []objectRow
	q := s.db.WithContext(ctx).Where("bucket_name = ?", bucket)
	if prefix != "" {
		q = q.Where("object_key LIKE ?", escapeLikePrefix(prefix)+"%")
	}
	if err := q.Order("object_key ASC").Find(&rows).Error; err != nil {
		return nil, errQueryFailed(err)
	}

	out := make([]types.ObjectMeta, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toObjectMeta())
	}
	return out, nil
}

// Close implements metastore.MetadataStore.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errQueryFailed(err)
	}
	return sqlDB.Close()
}

// escapeLikePrefix escapes sqlite LIKE wildcards in prefix so an object
// key containing "%" or "_" is matched literally.
func escapeLikePrefix(prefix string) string {
	r := strings.NewReplacer("\\", "\\\\", "%", "\\%", "_", "\\_")
	return r.Replace(prefix)
}
