package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lepinkainen/mediacat/internal/errors"
	"github.com/lepinkainen/mediacat/internal/media"
)

const dateLayout = "2006-01-02"

// Sort orders accepted by List. Anything else sorts newest first.
const (
	SortTitle = "title"
	SortType  = "type"
	SortYear  = "year"
)

// ListOptions filters and orders List results.
type ListOptions struct {
	// Query matches title, media type or genre, case-insensitively.
	Query  string
	SortBy string
}

// Store is the SQLite-backed catalog.
type Store struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Open opens (creating if needed) the catalog database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	// single writer; avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create catalog schema: %w", err)
	}

	return &Store{db: db, dbPath: dbPath, now: time.Now}, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func validate(item *Item) error {
	if item == nil {
		return errors.NewValidationError("item")
	}
	item.Title = strings.TrimSpace(item.Title)
	if item.Title == "" {
		return errors.NewValidationError("title")
	}
	if _, err := media.ParseMediaType(string(item.MediaType)); err != nil {
		return errors.NewInvalidFieldError("media_type", err.Error())
	}
	return nil
}

// Create inserts item and its detail row in one transaction and returns the
// new id. item.ID and an empty item.DateAdded are filled in.
func (s *Store) Create(ctx context.Context, item *Item) (int64, error) {
	if err := validate(item); err != nil {
		return 0, err
	}
	if item.DateAdded == "" {
		item.DateAdded = s.now().Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, item.DateAdded); err != nil {
		return 0, errors.NewInvalidFieldError("date_added", "expected YYYY-MM-DD")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO media_item (title, media_type, year, notes, date_added) VALUES (?, ?, ?, ?, ?)`,
		item.Title, string(item.MediaType), nullInt(item.Year), nullString(item.Notes), item.DateAdded)
	if err != nil {
		return 0, fmt.Errorf("failed to insert media item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}

	if err := upsertDetails(ctx, tx, id, item); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	item.ID = id
	return id, nil
}

// Get returns the item with the given id, or errors.ErrNotFound.
func (s *Store) Get(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, selectItems+" WHERE m.id = ?", id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("media item %d: %w", id, errors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load media item %d: %w", id, err)
	}
	return item, nil
}

// Update rewrites title, year and notes and upserts the detail row for the
// item's type. Changing the media type of an existing item is rejected.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if err := validate(item); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT media_type FROM media_item WHERE id = ?`, item.ID).Scan(&current)
	if err == sql.ErrNoRows {
		return fmt.Errorf("media item %d: %w", item.ID, errors.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load media item %d: %w", item.ID, err)
	}
	if current != string(item.MediaType) {
		return errors.NewInvalidFieldError("media_type", fmt.Sprintf("cannot change from %s to %s", current, item.MediaType))
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE media_item SET title = ?, year = ?, notes = ? WHERE id = ?`,
		item.Title, nullInt(item.Year), nullString(item.Notes), item.ID); err != nil {
		return fmt.Errorf("failed to update media item %d: %w", item.ID, err)
	}
	if err := upsertDetails(ctx, tx, item.ID, item); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes the item and its detail row.
func (s *Store) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// detail rows go first so deletes hold even with foreign keys off
	for _, table := range []string{"book_details", "audio_details", "video_details"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM media_item WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete media item %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("media item %d: %w", id, errors.ErrNotFound)
	}
	return tx.Commit()
}

// List returns items matching opts.Query in the requested order.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Item, error) {
	query := selectItems
	var args []any
	if q := strings.TrimSpace(opts.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		query += ` WHERE m.title LIKE ? ESCAPE '\'
	OR m.media_type LIKE ? ESCAPE '\'
	OR b.genre LIKE ? ESCAPE '\'
	OR a.genre LIKE ? ESCAPE '\'
	OR v.genre LIKE ? ESCAPE '\'`
		args = []any{pattern, pattern, pattern, pattern, pattern}
	}
	query += " ORDER BY " + orderBy(opts.SortBy)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list media items: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var items []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate media items: %w", err)
	}
	return items, nil
}

func orderBy(sortBy string) string {
	switch sortBy {
	case SortTitle:
		return "m.title COLLATE NOCASE ASC, m.id ASC"
	case SortType:
		return "m.media_type ASC, m.id ASC"
	case SortYear:
		return "m.year IS NULL, m.year DESC, m.id ASC"
	default:
		return "m.date_added DESC, m.id DESC"
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func upsertDetails(ctx context.Context, tx *sql.Tx, id int64, item *Item) error {
	var err error
	switch item.MediaType {
	case media.Book:
		d := item.Book
		if d == nil {
			d = &BookDetails{}
		}
		_, err = tx.ExecContext(ctx, upsertBook, id,
			nullString(d.Author), nullString(d.ISBN), nullString(d.Publisher),
			nullInt(d.PageCount), nullString(d.PhysicalDescription), nullString(d.Genre))
	case media.Audio:
		d := item.Audio
		if d == nil {
			d = &AudioDetails{}
		}
		_, err = tx.ExecContext(ctx, upsertAudio, id,
			nullString(d.Artist), nullString(d.Album), nullInt(d.TrackCount),
			nullString(d.Format), nullString(d.Genre))
	case media.Video:
		d := item.Video
		if d == nil {
			d = &VideoDetails{}
		}
		_, err = tx.ExecContext(ctx, upsertVideo, id,
			nullString(d.Director), nullInt(d.RuntimeMinutes), nullString(d.Rating),
			nullString(d.Format), nullString(d.Genre))
	}
	if err != nil {
		return fmt.Errorf("failed to save %s details: %w", item.MediaType, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*Item, error) {
	var (
		item      Item
		mediaType string
		year      sql.NullInt64
		notes     sql.NullString

		bookID                                       sql.NullInt64
		author, isbn, publisher, physDesc, bookGenre sql.NullString
		pageCount                                    sql.NullInt64
		audioID                                      sql.NullInt64
		artist, album, audioFormat, audioGenre       sql.NullString
		trackCount                                   sql.NullInt64
		videoID                                      sql.NullInt64
		director, rating, videoFormat, videoGenre    sql.NullString
		runtime                                      sql.NullInt64
	)

	err := row.Scan(
		&item.ID, &item.Title, &mediaType, &year, &notes, &item.DateAdded,
		&bookID, &author, &isbn, &publisher, &pageCount, &physDesc, &bookGenre,
		&audioID, &artist, &album, &trackCount, &audioFormat, &audioGenre,
		&videoID, &director, &runtime, &rating, &videoFormat, &videoGenre,
	)
	if err != nil {
		return nil, err
	}

	item.MediaType = media.MediaType(mediaType)
	item.Year = intPtr(year)
	item.Notes = notes.String

	switch item.MediaType {
	case media.Book:
		if bookID.Valid {
			item.Book = &BookDetails{
				Author:              author.String,
				ISBN:                isbn.String,
				Publisher:           publisher.String,
				PageCount:           intPtr(pageCount),
				PhysicalDescription: physDesc.String,
				Genre:               bookGenre.String,
			}
		}
	case media.Audio:
		if audioID.Valid {
			item.Audio = &AudioDetails{
				Artist:     artist.String,
				Album:      album.String,
				TrackCount: intPtr(trackCount),
				Format:     audioFormat.String,
				Genre:      audioGenre.String,
			}
		}
	case media.Video:
		if videoID.Valid {
			item.Video = &VideoDetails{
				Director:       director.String,
				RuntimeMinutes: intPtr(runtime),
				Rating:         rating.String,
				Format:         videoFormat.String,
				Genre:          videoGenre.String,
			}
		}
	}
	return &item, nil
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
