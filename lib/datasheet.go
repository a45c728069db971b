package lib

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/mholt/archiver"
)

/*
	ReadDatasheetPages returns the plain text of each page of a local
	datasheet. Pdf pages that fail text extraction contribute empty text;
	plain-text sheets split into pages on form feeds.
*/
func ReadDatasheetPages(path string) ([]string, error) {
	if path == "" || !Exists(path) {
		return nil, fmt.Errorf("datasheet not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return readPDFPages(path)
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return strings.Split(string(data), "\f"), nil
	}

	return nil, fmt.Errorf("unsupported datasheet format: %s", path)
}

func readPDFPages(path string) (pages []string, err error) {
	/*
		malformed pdfs can panic inside the reader
	*/
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("failed to read pdf %s: %v", path, r)
		}
	}()

	fp, reader, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		pages = append(pages, pdfPageText(page))
	}

	return pages, nil
}

func pdfPageText(page pdf.Page) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}

	return text
}

/*
	ImportDatasheets unpacks an archived datasheet bundle into dir.
*/
func ImportDatasheets(src, dir string) error {
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}

	return archiver.Unarchive(src, dir)
}

/*
	FindDatasheet resolves a component's datasheet reference to a local
	file: an existing path is used as-is, otherwise the named file is
	looked up in dir. Remote references resolve to their basename so a
	previously imported copy is picked up.
*/
func FindDatasheet(reference, dir string) string {
	if reference == "" {
		return ""
	}

	if Exists(reference) {
		return reference
	}

	name := filepath.Base(reference)
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}

	local := filepath.Join(dir, name)
	if dir != "" && Exists(local) {
		return local
	}

	return ""
}
