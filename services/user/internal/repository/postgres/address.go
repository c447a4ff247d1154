package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/AfsalAzizi/food-delivery-platform/pkg/database"
	apperrors "github.com/AfsalAzizi/food-delivery-platform/pkg/errors"
	"github.com/AfsalAzizi/food-delivery-platform/services/user/internal/domain"
)

const (
	addressColumns = `id, user_id, label, street_address, city, state, postal_code, country,
		latitude, longitude, is_default, created_at, updated_at`

	countAddressesSQL = `SELECT COUNT(*) FROM addresses WHERE user_id = $1`

	insertAddressSQL = `
		INSERT INTO addresses (` + addressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	selectAddressSQL = `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 AND user_id = $2`

	listAddressesSQL = `SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC`

	lockAddressSQL = `SELECT is_default FROM addresses WHERE id = $1 AND user_id = $2 FOR UPDATE`

	clearDefaultSQL = `
		UPDATE addresses SET is_default = false, updated_at = NOW()
		WHERE user_id = $1 AND id <> $2 AND is_default
		RETURNING id`

	updateAddressSQL = `
		UPDATE addresses SET
			label          = COALESCE($3, label),
			street_address = COALESCE($4, street_address),
			city           = COALESCE($5, city),
			state          = COALESCE($6, state),
			postal_code    = COALESCE($7, postal_code),
			country        = COALESCE($8, country),
			latitude       = COALESCE($9, latitude),
			longitude      = COALESCE($10, longitude),
			is_default     = is_default OR $11,
			updated_at     = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + addressColumns

	deleteAddressSQL = `DELETE FROM addresses WHERE id = $1 AND user_id = $2`

	promoteOldestSQL = `
		UPDATE addresses SET is_default = true, updated_at = NOW()
		WHERE id = (
			SELECT id FROM addresses
			WHERE user_id = $1
			ORDER BY created_at ASC, id ASC
			LIMIT 1
		)
		RETURNING id`
)

// AddressRepository implements repository.AddressRepository using PostgreSQL.
// Writes take a per-user advisory lock first, so concurrent writes for one
// user run one at a time while other users proceed in parallel.
type AddressRepository struct {
	db database.DBTX
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(db database.DBTX) *AddressRepository {
	return &AddressRepository{db: db}
}

func userLockKey(userID string) string {
	return "addresses:" + userID
}

// Create inserts a, making it the default when it is the user's first.
func (r *AddressRepository) Create(ctx context.Context, a *domain.Address) (res domain.CreateResult, err error) {
	ctx, end := database.TraceQuery(ctx, "address.Create", insertAddressSQL)
	defer func() { end(err) }()

	err = database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := database.LockKey(ctx, tx, userLockKey(a.UserID)); err != nil {
			return err
		}

		var existing int
		if err := tx.QueryRow(ctx, countAddressesSQL, a.UserID).Scan(&existing); err != nil {
			return fmt.Errorf("count addresses: %w", err)
		}
		a.IsDefault = existing == 0

		_, err := tx.Exec(ctx, insertAddressSQL,
			a.ID,
			a.UserID,
			a.Label,
			a.StreetAddress,
			a.City,
			a.State,
			a.PostalCode,
			a.Country,
			a.Latitude,
			a.Longitude,
			a.IsDefault,
			a.CreatedAt,
			a.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert address: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.CreateResult{}, err
	}

	return domain.CreateResult{Address: a, IsFirstAddress: a.IsDefault}, nil
}

// GetForUser returns the address when userID owns it.
func (r *AddressRepository) GetForUser(ctx context.Context, userID, id string) (a *domain.Address, err error) {
	ctx, end := database.TraceQuery(ctx, "address.GetForUser", selectAddressSQL)
	defer func() { end(err) }()

	a, err = scanAddress(r.db.QueryRow(ctx, selectAddressSQL, id, userID))
	if err != nil {
		return nil, notFoundOr(err, id)
	}
	return a, nil
}

// ListByUserID returns the user's addresses oldest first. A user without
// addresses gets an empty, non-nil slice.
func (r *AddressRepository) ListByUserID(ctx context.Context, userID string) (list []domain.Address, err error) {
	ctx, end := database.TraceQuery(ctx, "address.ListByUserID", listAddressesSQL)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, listAddressesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("query addresses: %w", err)
	}
	defer rows.Close()

	list = make([]domain.Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate addresses: %w", err)
	}
	return list, nil
}

// CountByUserID returns the number of addresses the user owns.
func (r *AddressRepository) CountByUserID(ctx context.Context, userID string) (n int, err error) {
	ctx, end := database.TraceQuery(ctx, "address.CountByUserID", countAddressesSQL)
	defer func() { end(err) }()

	if err = r.db.QueryRow(ctx, countAddressesSQL, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count addresses: %w", err)
	}
	return n, nil
}

// Update applies patch inside one transaction. When the patch promotes the
// address, the old default is cleared before the new one is set so the
// partial unique index never sees two defaults.
func (r *AddressRepository) Update(ctx context.Context, userID, id string, patch domain.AddressPatch) (res domain.UpdateResult, err error) {
	ctx, end := database.TraceQuery(ctx, "address.Update", updateAddressSQL)
	defer func() { end(err) }()

	err = database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := database.LockKey(ctx, tx, userLockKey(userID)); err != nil {
			return err
		}

		wasDefault, err := lockAddress(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		if patch.DemotesDefault() && wasDefault {
			return apperrors.InvalidInput(domain.MsgDemoteDefault)
		}

		promote := patch.PromotesToDefault() && !wasDefault
		if promote {
			res.DefaultChanged = true
			err := tx.QueryRow(ctx, clearDefaultSQL, userID, id).Scan(&res.DemotedID)
			if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("clear default address: %w", err)
			}
		}

		a, err := scanAddress(tx.QueryRow(ctx, updateAddressSQL,
			id,
			userID,
			patch.Label,
			patch.StreetAddress,
			patch.City,
			patch.State,
			patch.PostalCode,
			patch.Country,
			patch.Latitude,
			patch.Longitude,
			promote,
		))
		if err != nil {
			return fmt.Errorf("update address: %w", err)
		}
		res.Address = a
		return nil
	})
	if err != nil {
		return domain.UpdateResult{}, err
	}
	return res, nil
}

// Delete removes the address and promotes the oldest remaining address when
// the deleted one was the default.
func (r *AddressRepository) Delete(ctx context.Context, userID, id string) (res domain.DeleteResult, err error) {
	ctx, end := database.TraceQuery(ctx, "address.Delete", deleteAddressSQL)
	defer func() { end(err) }()

	err = database.InTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := database.LockKey(ctx, tx, userLockKey(userID)); err != nil {
			return err
		}

		wasDefault, err := lockAddress(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		res.WasDefault = wasDefault

		if _, err := tx.Exec(ctx, deleteAddressSQL, id, userID); err != nil {
			return fmt.Errorf("delete address: %w", err)
		}

		if !wasDefault {
			return nil
		}
		err = tx.QueryRow(ctx, promoteOldestSQL, userID).Scan(&res.PromotedID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("promote default address: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.DeleteResult{}, err
	}
	return res, nil
}

// lockAddress row-locks the address and reports whether it is the default.
func lockAddress(ctx context.Context, tx pgx.Tx, userID, id string) (bool, error) {
	var isDefault bool
	if err := tx.QueryRow(ctx, lockAddressSQL, id, userID).Scan(&isDefault); err != nil {
		return false, notFoundOr(fmt.Errorf("lock address: %w", err), id)
	}
	return isDefault, nil
}

// notFoundOr maps a missing row or a malformed id to NotFound.
func notFoundOr(err error, id string) error {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, apperrors.ErrNotFound) || isInvalidID(err) {
		return apperrors.NotFound("address", id)
	}
	return err
}

func scanAddress(row pgx.Row) (*domain.Address, error) {
	var a domain.Address
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Label,
		&a.StreetAddress,
		&a.City,
		&a.State,
		&a.PostalCode,
		&a.Country,
		&a.Latitude,
		&a.Longitude,
		&a.IsDefault,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan address: %w", err)
	}
	return &a, nil
}
