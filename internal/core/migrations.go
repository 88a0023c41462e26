// AngelaMos | 2026
// migrations.go

package core

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'seller' CHECK (role IN ('seller', 'buyer', 'admin')),
    bio           TEXT NOT NULL DEFAULT '',
    company       TEXT NOT NULL DEFAULT '',
    location      TEXT NOT NULL DEFAULT '',
    phone         TEXT NOT NULL DEFAULT '',
    website       TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    deleted_at    TIMESTAMPTZ
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
    ON users(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS listings (
    id              UUID PRIMARY KEY,
    title           TEXT NOT NULL,
    description     TEXT NOT NULL,
    category        TEXT NOT NULL CHECK (category IN (
                        'Laptops', 'Smartphones', 'Monitors', 'Accessories',
                        'Appliances', 'Industrial', 'Batteries')),
    condition       TEXT NOT NULL,
    hazard_level    TEXT NOT NULL DEFAULT 'Low' CHECK (hazard_level IN ('Low', 'Medium', 'High')),
    status          TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'rejected', 'sold')),
    seller_id       UUID NOT NULL REFERENCES users(id),
    images          TEXT[] NOT NULL DEFAULT '{}',
    location        TEXT NOT NULL,
    precise_lat     DOUBLE PRECISION,
    precise_lng     DOUBLE PRECISION,
    precise_address TEXT,
    precise_city    TEXT,
    precise_area    TEXT,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_listings_status_created
    ON listings(status, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_listings_seller
    ON listings(seller_id);

CREATE TABLE IF NOT EXISTS interests (
    id         UUID PRIMARY KEY,
    listing_id UUID NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
    buyer_id   UUID NOT NULL REFERENCES users(id),
    seller_id  UUID NOT NULL REFERENCES users(id),
    status     TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'rejected', 'completed')),
    message    TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_interests_listing_buyer
    ON interests(listing_id, buyer_id);
CREATE INDEX IF NOT EXISTS idx_interests_seller
    ON interests(seller_id);

CREATE TABLE IF NOT EXISTS messages (
    id               UUID PRIMARY KEY,
    sender_id        UUID NOT NULL REFERENCES users(id),
    receiver_id      UUID NOT NULL REFERENCES users(id),
    listing_id       UUID NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
    content          TEXT NOT NULL,
    location_lat     DOUBLE PRECISION,
    location_lng     DOUBLE PRECISION,
    location_address TEXT,
    location_label   TEXT,
    is_read          BOOLEAN NOT NULL DEFAULT FALSE,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_messages_listing_created
    ON messages(listing_id, created_at);
CREATE INDEX IF NOT EXISTS idx_messages_receiver_unread
    ON messages(receiver_id, listing_id) WHERE is_read = FALSE;
`

// migrations run in order after the base schema. Each must be idempotent;
// append new statements at the end.
var migrations = []string{
	// Migration 1: re-derive hazard levels for rows written before the
	// category table moved server-side.
	`UPDATE listings l SET hazard_level = d.level
	 FROM (SELECT id, CASE category
	           WHEN 'Batteries'   THEN 'High'
	           WHEN 'Industrial'  THEN 'High'
	           WHEN 'Laptops'     THEN 'Medium'
	           WHEN 'Smartphones' THEN 'Medium'
	           WHEN 'Monitors'    THEN 'Medium'
	           ELSE 'Low' END AS level
	       FROM listings) d
	 WHERE d.id = l.id AND l.hazard_level <> d.level`,
}

func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
	}

	return nil
}
