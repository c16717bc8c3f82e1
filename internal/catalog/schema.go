package catalog

// Dates are TEXT rather than DATE so the driver returns them unparsed.
const schema = `
CREATE TABLE IF NOT EXISTS media_item (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	media_type TEXT NOT NULL CHECK (media_type IN ('book', 'audio', 'video')),
	year INTEGER,
	notes TEXT,
	date_added TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_media_item_date_added ON media_item(date_added);

CREATE TABLE IF NOT EXISTS book_details (
	id INTEGER PRIMARY KEY REFERENCES media_item(id) ON DELETE CASCADE,
	author TEXT,
	isbn TEXT,
	publisher TEXT,
	page_count INTEGER,
	physical_description TEXT,
	genre TEXT
);

CREATE TABLE IF NOT EXISTS audio_details (
	id INTEGER PRIMARY KEY REFERENCES media_item(id) ON DELETE CASCADE,
	artist TEXT,
	album TEXT,
	track_count INTEGER,
	format TEXT,
	genre TEXT
);

CREATE TABLE IF NOT EXISTS video_details (
	id INTEGER PRIMARY KEY REFERENCES media_item(id) ON DELETE CASCADE,
	director TEXT,
	runtime_minutes INTEGER,
	rating TEXT,
	format TEXT,
	genre TEXT
);
`

const selectItems = `
SELECT
	m.id, m.title, m.media_type, m.year, m.notes, m.date_added,
	b.id, b.author, b.isbn, b.publisher, b.page_count, b.physical_description, b.genre,
	a.id, a.artist, a.album, a.track_count, a.format, a.genre,
	v.id, v.director, v.runtime_minutes, v.rating, v.format, v.genre
FROM media_item m
LEFT JOIN book_details b ON b.id = m.id
LEFT JOIN audio_details a ON a.id = m.id
LEFT JOIN video_details v ON v.id = m.id
`

const upsertBook = `
INSERT INTO book_details (id, author, isbn, publisher, page_count, physical_description, genre)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	author = excluded.author,
	isbn = excluded.isbn,
	publisher = excluded.publisher,
	page_count = excluded.page_count,
	physical_description = excluded.physical_description,
	genre = excluded.genre
`

const upsertAudio = `
INSERT INTO audio_details (id, artist, album, track_count, format, genre)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	artist = excluded.artist,
	album = excluded.album,
	track_count = excluded.track_count,
	format = excluded.format,
	genre = excluded.genre
`

const upsertVideo = `
INSERT INTO video_details (id, director, runtime_minutes, rating, format, genre)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	director = excluded.director,
	runtime_minutes = excluded.runtime_minutes,
	rating = excluded.rating,
	format = excluded.format,
	genre = excluded.genre
`
