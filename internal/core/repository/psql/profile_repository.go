package psql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/duynhne/directory-service/internal/core/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// profileColumns is the single column list used by SELECT and RETURNING so
// scanProfile always sees the same order.
const profileColumns = `id::text, name, email, phone, gender, work, address, village, city, state,
company_name, experience, description, avatar, created_at, updated_at`

const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id           UUID PRIMARY KEY,
	name         TEXT NOT NULL,
	email        TEXT NOT NULL DEFAULT '',
	phone        TEXT NOT NULL,
	gender       TEXT NOT NULL DEFAULT '',
	work         TEXT[] NOT NULL DEFAULT '{}',
	address      TEXT NOT NULL DEFAULT '',
	village      TEXT NOT NULL DEFAULT '',
	city         TEXT NOT NULL DEFAULT '',
	state        TEXT NOT NULL DEFAULT '',
	company_name TEXT NOT NULL DEFAULT '',
	experience   TEXT NOT NULL DEFAULT '',
	description  TEXT NOT NULL DEFAULT '',
	avatar       TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS profiles_created_idx ON profiles (created_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS profiles_email_idx ON profiles (email);
CREATE INDEX IF NOT EXISTS profiles_work_idx ON profiles USING GIN (work);
`

// Partial so that profiles without an email never collide.
const uniqueEmailIndex = `CREATE UNIQUE INDEX IF NOT EXISTS profiles_email_unique ON profiles (email) WHERE email <> ''`

// ProfileRepository implements domain.ProfileRepository using PostgreSQL
type ProfileRepository struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// EnsureSchema creates the profiles table and its indexes if missing.
func (r *ProfileRepository) EnsureSchema(ctx context.Context, uniqueEmail bool) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create profiles schema: %w", err)
	}
	if uniqueEmail {
		if _, err := r.db.Exec(ctx, uniqueEmailIndex); err != nil {
			return fmt.Errorf("create unique email index: %w", err)
		}
	}
	return nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Phone,
		&p.Gender,
		&p.Work,
		&p.Address,
		&p.Village,
		&p.City,
		&p.State,
		&p.CompanyName,
		&p.Experience,
		&p.Description,
		&p.Avatar,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if p.Work == nil {
		p.Work = []string{}
	}
	return &p, nil
}

// List returns one page of matching profiles and the total match count.
func (r *ProfileRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.Profile, int64, error) {
	const op = "repository/psql/List"

	where, args := compileWhere(q.Predicate, nil)

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM profiles`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	args = append(args, q.Limit, q.Skip())
	query := fmt.Sprintf(`SELECT %s FROM profiles%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		profileColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: query: %w", op, err)
	}
	defer rows.Close()

	profiles := make([]domain.Profile, 0, q.Limit)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: scan: %w", op, err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: rows: %w", op, err)
	}

	return profiles, total, nil
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	const op = "repository/psql/GetByID"

	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrProfileNotFound)
	}

	p, err := scanProfile(r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// EmailExists checks whether any profile uses the email.
func (r *ProfileRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("repository/psql/EmailExists: %w", err)
	}
	return exists, nil
}

// Create inserts a new profile
func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	const op = "repository/psql/Create"

	work := p.Work
	if work == nil {
		work = []string{}
	}

	q := `INSERT INTO profiles (id, name, email, phone, gender, work, address, village, city, state,
		company_name, experience, description, avatar)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING ` + profileColumns

	created, err := scanProfile(r.db.QueryRow(ctx, q,
		uuid.New(),
		p.Name,
		p.Email,
		p.Phone,
		p.Gender,
		work,
		p.Address,
		p.Village,
		p.City,
		p.State,
		p.CompanyName,
		p.Experience,
		p.Description,
		p.Avatar,
	))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapWriteError(err))
	}
	return created, nil
}

// Update overwrites the fields set in upd and bumps updated_at.
func (r *ProfileRepository) Update(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	const op = "repository/psql/Update"

	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrProfileNotFound)
	}

	sets := []string{"updated_at = now()"}
	args := make([]any, 0, 14)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	addString := func(column string, value *string) {
		if value != nil {
			add(column, *value)
		}
	}

	addString("name", upd.Name)
	addString("email", upd.Email)
	addString("phone", upd.Phone)
	addString("gender", upd.Gender)
	if upd.Work != nil {
		add("work", upd.Work)
	}
	addString("address", upd.Address)
	addString("village", upd.Village)
	addString("city", upd.City)
	addString("state", upd.State)
	addString("company_name", upd.CompanyName)
	addString("experience", upd.Experience)
	addString("description", upd.Description)
	addString("avatar", upd.Avatar)

	args = append(args, uid)
	q := fmt.Sprintf(`UPDATE profiles SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), profileColumns)

	p, err := scanProfile(r.db.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, mapWriteError(err))
	}
	return p, nil
}

// Delete removes a profile permanently
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	const op = "repository/psql/Delete"

	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, domain.ErrProfileNotFound)
	}

	result, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrProfileNotFound)
	}
	return nil
}

// WorkTypes returns every distinct work tag in ascending order
func (r *ProfileRepository) WorkTypes(ctx context.Context) ([]string, error) {
	const op = "repository/psql/WorkTypes"

	rows, err := r.db.Query(ctx, `SELECT DISTINCT w FROM profiles, unnest(work) AS w WHERE w <> '' ORDER BY w`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	types, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return types, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return domain.ErrEmailTaken
	}
	return err
}

// compileWhere turns the predicate into a WHERE clause with positional
// parameters appended to args. The empty predicate yields "".
func compileWhere(pred domain.Predicate, args []any) (string, []any) {
	if len(pred) == 0 {
		return "", args
	}

	clauses := make([]string, 0, len(pred))
	for _, clause := range pred {
		conds := make([]string, 0, len(clause))
		for _, cond := range clause {
			args = append(args, "%"+escapeLike(cond.Substring)+"%")
			if cond.Field == domain.FieldWork {
				conds = append(conds, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(work) AS w WHERE w ILIKE $%d)", len(args)))
				continue
			}
			conds = append(conds, fmt.Sprintf("%s ILIKE $%d", column(cond.Field), len(args)))
		}
		clauses = append(clauses, "("+strings.Join(conds, " OR ")+")")
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

// column maps a searchable field to its column. Unknown fields fall back to
// name so no caller-provided text reaches the SQL string.
func column(f domain.Field) string {
	switch f {
	case domain.FieldCity, domain.FieldVillage, domain.FieldState,
		domain.FieldDescription, domain.FieldEmail, domain.FieldPhone:
		return string(f)
	}
	return "name"
}

// escapeLike makes s match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
