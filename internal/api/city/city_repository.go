package city

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-city-weather/app/observability/metrics"
	"github.com/FACorreiaa/go-city-weather/internal/types"
)

var _ CityRepository = (*PostgresCityRepository)(nil)

// uniqueViolation is the SQLSTATE Postgres reports for a duplicate key.
const uniqueViolation = "23505"

const (
	getCitiesQuery    = `SELECT id, name, latitude, longitude FROM cities ORDER BY name`
	getCityNamesQuery = `SELECT name FROM cities ORDER BY name`
	getCoordsQuery    = `SELECT latitude, longitude FROM cities WHERE name = $1`
	insertCityQuery   = `INSERT INTO cities (name, latitude, longitude) VALUES ($1, $2, $3)`
	deleteCityQuery   = `DELETE FROM cities WHERE name = $1`
	updateCityQuery   = `UPDATE cities SET %s WHERE name = $%d`
	checkTokenQuery   = `SELECT EXISTS (SELECT 1 FROM api_tokens WHERE token = $1)`
	checkCityQuery    = `SELECT EXISTS (SELECT 1 FROM cities WHERE name = $1)`
	insertTokenQuery  = `INSERT INTO api_tokens (token) VALUES ($1) ON CONFLICT (token) DO NOTHING`
)

// DB is the subset of *pgxpool.Pool the repository uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type CityRepository interface {
	GetCities(ctx context.Context) ([]types.City, error)
	GetCityNames(ctx context.Context) ([]string, error)
	GetCoordsByCity(ctx context.Context, name string) (types.Coordinates, error)
	// AddCity returns types.ErrCityExists when the name is taken.
	AddCity(ctx context.Context, city types.City) (bool, error)
	DeleteCity(ctx context.Context, name string) (bool, error)
	UpdateCity(ctx context.Context, name string, patch types.CityPatch) (bool, error)
	CityExists(ctx context.Context, name string) (bool, error)
	TokenExists(ctx context.Context, token string) (bool, error)
	AddToken(ctx context.Context, token string) error
}

type PostgresCityRepository struct {
	logger *slog.Logger
	pgpool DB
}

func NewCityRepository(pgpool DB, logger *slog.Logger) *PostgresCityRepository {
	return &PostgresCityRepository{
		logger: logger,
		pgpool: pgpool,
	}
}

// observe records the query duration and, on failure, an error count.
func (r *PostgresCityRepository) observe(ctx context.Context, query string, start time.Time, err error) {
	m := metrics.Get()
	attrs := metric.WithAttributes(attribute.String("query", query))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

func (r *PostgresCityRepository) GetCities(ctx context.Context) (cities []types.City, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "get_cities", start, err) }()

	rows, err := r.pgpool.Query(ctx, getCitiesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query cities: %w", err)
	}
	defer rows.Close()

	cities = []types.City{}
	for rows.Next() {
		var c types.City
		if err = rows.Scan(&c.ID, &c.Name, &c.Latitude, &c.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cities: %w", err)
	}
	return cities, nil
}

func (r *PostgresCityRepository) GetCityNames(ctx context.Context) (names []string, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "get_city_names", start, err) }()

	rows, err := r.pgpool.Query(ctx, getCityNamesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query city names: %w", err)
	}
	defer rows.Close()

	names = []string{}
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan city name: %w", err)
		}
		names = append(names, name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate city names: %w", err)
	}
	return names, nil
}

func (r *PostgresCityRepository) GetCoordsByCity(ctx context.Context, name string) (coords types.Coordinates, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "get_coords_by_city", start, err) }()

	err = r.pgpool.QueryRow(ctx, getCoordsQuery, name).Scan(&coords.Latitude, &coords.Longitude)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Coordinates{}, fmt.Errorf("%w: %q", types.ErrCityNotFound, name)
		}
		return types.Coordinates{}, fmt.Errorf("failed to find city coordinates: %w", err)
	}
	return coords, nil
}

func (r *PostgresCityRepository) AddCity(ctx context.Context, city types.City) (ok bool, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "insert_city", start, err) }()

	tag, err := r.pgpool.Exec(ctx, insertCityQuery, city.Name, city.Latitude, city.Longitude)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.DebugContext(ctx, "City already exists", slog.String("city", city.Name))
			return false, fmt.Errorf("%w: %q", types.ErrCityExists, city.Name)
		}
		return false, fmt.Errorf("failed to insert city: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresCityRepository) DeleteCity(ctx context.Context, name string) (ok bool, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "delete_city", start, err) }()

	tag, err := r.pgpool.Exec(ctx, deleteCityQuery, name)
	if err != nil {
		return false, fmt.Errorf("failed to delete city: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateCity applies the non-nil fields of patch. Column names come from a
// fixed list, only values are parameterized.
func (r *PostgresCityRepository) UpdateCity(ctx context.Context, name string, patch types.CityPatch) (ok bool, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "update_city", start, err) }()

	if patch.IsEmpty() {
		return false, fmt.Errorf("%w: empty update", types.ErrInvalidCity)
	}

	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Latitude != nil {
		add("latitude", *patch.Latitude)
	}
	if patch.Longitude != nil {
		add("longitude", *patch.Longitude)
	}
	args = append(args, name)

	query := fmt.Sprintf(updateCityQuery, strings.Join(sets, ", "), len(args))
	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) && patch.Name != nil {
			return false, fmt.Errorf("%w: %q", types.ErrCityExists, *patch.Name)
		}
		return false, fmt.Errorf("failed to update city: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostgresCityRepository) CityExists(ctx context.Context, name string) (exists bool, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "check_city", start, err) }()

	if err = r.pgpool.QueryRow(ctx, checkCityQuery, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check city: %w", err)
	}
	return exists, nil
}

func (r *PostgresCityRepository) TokenExists(ctx context.Context, token string) (exists bool, err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "check_token", start, err) }()

	if err = r.pgpool.QueryRow(ctx, checkTokenQuery, token).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return exists, nil
}

// AddToken stores a token; adding one that already exists is a no-op.
func (r *PostgresCityRepository) AddToken(ctx context.Context, token string) (err error) {
	start := time.Now()
	defer func() { r.observe(ctx, "insert_token", start, err) }()

	if _, err = r.pgpool.Exec(ctx, insertTokenQuery, token); err != nil {
		return fmt.Errorf("failed to insert token: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
