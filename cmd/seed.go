package cmd

import (
	"context"
	"errors"

	"shop/internal/adapters/out/postgres/itemrepo"
	"shop/internal/adapters/out/postgres/userrepo"
	"shop/internal/core/domain/model/item"
	"shop/internal/core/domain/model/kernel"
	"shop/internal/core/domain/model/user"
	"shop/internal/pkg/errs"

	"gorm.io/gorm"
)

// seedItem is one catalog entry created at startup. IDs are fixed so that
// repeated boots and test environments agree on them.
type seedItem struct {
	id    string
	name  string
	price string
}

type seedUser struct {
	id      string
	name    string
	email   string
	isAdmin bool
}

var seedItems = []seedItem{
	{"0d1c9f60-0001-4a7b-9b6e-3f6a1c000001", "Gaming Mouse", "49.99"},
	{"0d1c9f60-0002-4a7b-9b6e-3f6a1c000002", "Mechanical Keyboard", "89.99"},
	{"0d1c9f60-0003-4a7b-9b6e-3f6a1c000003", "4K Monitor", "299.99"},
	{"0d1c9f60-0004-4a7b-9b6e-3f6a1c000004", "USB-C Hub", "29.99"},
	{"0d1c9f60-0005-4a7b-9b6e-3f6a1c000005", "Wireless Headset", "119.99"},
	{"0d1c9f60-0006-4a7b-9b6e-3f6a1c000006", "Ipad Pro", "999.99"},
	{"0d1c9f60-0007-4a7b-9b6e-3f6a1c000007", "Wireless Mouse", "219.99"},
	{"0d1c9f60-0008-4a7b-9b6e-3f6a1c000008", "Wireless Keyboard", "189.99"},
	{"0d1c9f60-0009-4a7b-9b6e-3f6a1c000009", "Gaming Mic", "69.99"},
	{"0d1c9f60-0010-4a7b-9b6e-3f6a1c000010", "Mac Book Pro", "1899.99"},
	{"0d1c9f60-0011-4a7b-9b6e-3f6a1c000011", "Airpods", "259.99"},
	{"0d1c9f60-0012-4a7b-9b6e-3f6a1c000012", "Samsung Phone", "899.99"},
}

var seedUsers = []seedUser{
	{"7be4a1d2-0001-4c8f-8d2a-5e9b3f000001", "Customer User", "user1@example.com", false},
	{"7be4a1d2-0002-4c8f-8d2a-5e9b3f000002", "Admin User", "admin1@example.com", true},
}

// Seed populates the catalog and the demo accounts. Existing records are
// left untouched, so it is safe to run on every boot.
func Seed(ctx context.Context, db *gorm.DB) error {
	items := itemrepo.NewGormItemRepository(db)
	for _, seed := range seedItems {
		id, err := kernel.UUIDFromString(seed.id)
		if err != nil {
			return err
		}

		if _, err = items.Get(ctx, id); err == nil {
			continue
		} else if !errors.Is(err, errs.ErrObjectNotFound) {
			return err
		}

		price, err := kernel.MoneyFromString(seed.price)
		if err != nil {
			return err
		}

		catalogItem, err := item.NewItem(id, seed.name, price)
		if err != nil {
			return err
		}

		if err = items.Add(ctx, catalogItem); err != nil {
			return err
		}
	}

	users := userrepo.NewGormUserRepository(db)
	for _, seed := range seedUsers {
		id, err := kernel.UUIDFromString(seed.id)
		if err != nil {
			return err
		}

		if _, err = users.Get(ctx, id); err == nil {
			continue
		} else if !errors.Is(err, errs.ErrObjectNotFound) {
			return err
		}

		account, err := user.NewUser(id, seed.name, seed.email, seed.isAdmin)
		if err != nil {
			return err
		}

		if err = users.Add(ctx, account); err != nil {
			return err
		}
	}

	return nil
}
