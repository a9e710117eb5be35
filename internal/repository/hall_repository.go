package repository // repository holds data access logic for domain entities

import (
    "context"      // context is used to manage deadlines and cancellation
    "database/sql" // sql provides DB primitives
    "errors"       // errors package allows sentinel error checks
    "strings"      // strings detects duplicate-key driver errors

    "github.com/iliyamo/cinema-programming/internal/model"
)

// HallRepo provides methods to create and retrieve halls.  It embeds a
// database handle to perform queries and commands.
type HallRepo struct {
    db *sql.DB // db is the underlying database connection
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
    return &HallRepo{db: db}
}

const hallColumns = `id, name, description, created_at, updated_at`

func scanHall(row interface{ Scan(...any) error }) (*model.Hall, error) {
    var h model.Hall
    var desc sql.NullString
    if err := row.Scan(&h.ID, &h.Name, &desc, &h.CreatedAt, &h.UpdatedAt); err != nil {
        return nil, err
    }
    if desc.Valid {
        h.Description = &desc.String
    }
    return &h, nil
}

// Create inserts a new hall.  Hall names are unique; a duplicate name
// is reported as ErrNameTaken.  After insert the row is read back so
// the caller sees timestamps and the generated ID.
func (r *HallRepo) Create(ctx context.Context, name string, description *string) (*model.Hall, error) {
    const qInsert = `INSERT INTO halls (name, description) VALUES (?, ?)`
    res, err := r.db.ExecContext(ctx, qInsert, name, description)
    if err != nil {
        if isDuplicateKey(err) {
            return nil, ErrNameTaken
        }
        return nil, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return nil, err
    }
    return r.GetByID(ctx, uint64(id))
}

// GetByID retrieves a hall by its ID.  It returns ErrHallNotFound when
// no row is found.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
    const q = `SELECT ` + hallColumns + ` FROM halls WHERE id = ?`
    h, err := scanHall(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, ErrHallNotFound
        }
        return nil, err
    }
    return h, nil
}

// List returns all halls ordered by name.
func (r *HallRepo) List(ctx context.Context) ([]model.Hall, error) {
    const q = `SELECT ` + hallColumns + ` FROM halls ORDER BY name`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Hall
    for rows.Next() {
        h, err := scanHall(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *h)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Update changes a hall's name and description.  Returns
// ErrHallNotFound when the row does not exist and ErrNameTaken when the
// new name collides with another hall.
func (r *HallRepo) Update(ctx context.Context, h *model.Hall) error {
    const q = `UPDATE halls
               SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
    res, err := r.db.ExecContext(ctx, q, h.Name, h.Description, h.ID)
    if err != nil {
        if isDuplicateKey(err) {
            return ErrNameTaken
        }
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        // Distinguish "no change" from "not found".
        var one int
        if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM halls WHERE id = ?`, h.ID).Scan(&one); err != nil {
            if errors.Is(err, sql.ErrNoRows) {
                return ErrHallNotFound
            }
            return err
        }
    }
    return nil
}

// Delete removes a hall, refusing while showtimes still reference it.
// The check and the delete run in one transaction so a showtime created
// in between cannot orphan itself.  Returns ErrHallInUse when the hall
// is still referenced and ErrHallNotFound when it does not exist.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() {
        if err != nil {
            _ = tx.Rollback()
        } else {
            _ = tx.Commit()
        }
    }()
    var one int
    err = tx.QueryRowContext(ctx, `SELECT 1 FROM halls WHERE id = ? FOR UPDATE`, id).Scan(&one)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return ErrHallNotFound
        }
        return err
    }
    var refs int
    if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM showtimes WHERE hall_id = ?`, id).Scan(&refs); err != nil {
        return err
    }
    if refs > 0 {
        err = ErrHallInUse
        return err
    }
    _, err = tx.ExecContext(ctx, `DELETE FROM halls WHERE id = ?`, id)
    return err
}

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (code 1062) raised by a unique constraint.
func isDuplicateKey(err error) bool {
    return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
