// Package seed bootstraps demo data for local and self-hosted environments.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	creatordomain "github.com/personacoreio/personacore/internal/creator/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var demoCreators = []struct {
	Name string
	Bio  string
}{
	{Name: "Ava Sterling", Bio: "Fitness coach and lifestyle creator"},
	{Name: "Luna Hart", Bio: "Artist sharing daily sketches and studio life"},
	{Name: "Mia Rivers", Bio: "Travel vlogger documenting slow travel"},
}

// EnsureDemoCreators inserts a small roster of demo creators so the platform
// has something to subscribe to on first boot. Existing slugs are left alone.
func EnsureDemoCreators(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, demo := range demoCreators {
			creatorSlug := slug.Make(demo.Name)

			var count int64
			err := tx.Raw(
				`SELECT COUNT(1) FROM creators WHERE slug = ?`,
				creatorSlug,
			).Scan(&count).Error
			if err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			now := time.Now().UTC()
			creator := creatordomain.Creator{
				ID:     node.Generate(),
				Name:   demo.Name,
				Slug:   creatorSlug,
				Status: creatordomain.StatusActive,
				Metadata: datatypes.JSONMap{
					"bio":  demo.Bio,
					"demo": true,
				},
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Create(&creator).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
