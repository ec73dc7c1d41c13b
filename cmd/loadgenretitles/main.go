package main

import (
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"reviewhub.app/reviewhub/internal/model"
	"reviewhub.app/reviewhub/pkg/database"
)

// Loads exported title/genre join rows into the title_genres table.
// Expected header: id,title_id,genre_id (column order is taken from the
// header, so id,genre_id,title_id exports load the same way).
func main() {
	path := flag.String("file", "genre_title.csv", "path to the CSV export")
	flag.Parse()

	_ = godotenv.Load()

	file, err := os.Open(*path)
	if err != nil {
		log.Fatalf("failed to open %s: %v", *path, err)
	}
	defer file.Close()

	rows, err := parseRows(file)
	if err != nil {
		log.Fatalf("failed to parse %s: %v", *path, err)
	}

	if len(rows) == 0 {
		log.Println("no rows to load")
		return
	}

	db := database.Connect()
	if err := db.Create(&rows).Error; err != nil {
		log.Fatalf("failed to insert rows: %v", err)
	}

	log.Printf("loaded %d title/genre rows from %s", len(rows), *path)
}

func parseRows(r io.Reader) ([]model.TitleGenre, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, required := range []string{"id", "title_id", "genre_id"} {
		if _, ok := columns[required]; !ok {
			return nil, &missingColumnError{column: required}
		}
	}

	var rows []model.TitleGenre
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		row := model.TitleGenre{}
		if row.ID, err = strconv.ParseInt(record[columns["id"]], 10, 64); err != nil {
			return nil, err
		}
		if row.TitleID, err = strconv.ParseInt(record[columns["title_id"]], 10, 64); err != nil {
			return nil, err
		}
		if row.GenreID, err = strconv.ParseInt(record[columns["genre_id"]], 10, 64); err != nil {
			return nil, err
		}

		rows = append(rows, row)
	}

	return rows, nil
}

type missingColumnError struct {
	column string
}

func (e *missingColumnError) Error() string {
	return "missing required column " + e.column
}
