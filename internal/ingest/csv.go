package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/doctree/internal/doctree"
)

// CSVProducer handles CSV files, building a table with the first row
// as the header.
type CSVProducer struct{}

func (p *CSVProducer) Produce(r io.Reader, filename string, doc *doctree.Document) error {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return fmt.Errorf("parse csv: %w", err)
	}

	doc.NoteSource(filename, -1)
	if len(records) == 0 {
		return nil
	}

	cols := 0
	for _, record := range records {
		if len(record) > cols {
			cols = len(record)
		}
	}

	table := doctree.NewElement(doctree.KindTable)
	tgroup := doctree.NewElement(doctree.KindTgroup)
	tgroup.Set("cols", cols)
	table.Append(tgroup)
	for range cols {
		colspec := doctree.NewElement(doctree.KindColspec)
		colspec.Set("colwidth", 1)
		tgroup.Append(colspec)
	}

	// tgroup requires a tbody with at least one row, so a lone record
	// becomes the body rather than a header.
	tbody := doctree.NewElement(doctree.KindTbody)
	if len(records) > 1 {
		thead := doctree.NewElement(doctree.KindThead)
		thead.Append(csvRow(records[0], cols))
		tgroup.Append(thead)
		for _, record := range records[1:] {
			tbody.Append(csvRow(record, cols))
		}
	} else {
		tbody.Append(csvRow(records[0], cols))
	}
	tgroup.Append(tbody)

	doc.Append(table)
	return nil
}

// csvRow builds a table row, padding short records to the column
// count.
func csvRow(record []string, cols int) *doctree.Element {
	row := doctree.NewElement(doctree.KindRow)
	for i := range cols {
		entry := doctree.NewElement(doctree.KindEntry)
		if i < len(record) && record[i] != "" {
			entry.Append(doctree.NewTextElement(doctree.KindParagraph, record[i]))
		}
		row.Append(entry)
	}
	return row
}
