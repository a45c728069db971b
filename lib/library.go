package lib

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blevesearch/bleve"
	"github.com/boltdb/bolt"
	"github.com/xuri/excelize/v2"
)

/*
	Local parts library: a bolt store for part records, value-to-part
	associations and cached SOA limit sets, with a bleve index over the
	part descriptions for search.
*/
type Library struct {
	root  string
	db    *bolt.DB
	index bleve.Index
}

type LibraryPart struct {
	MPN          string
	Manufacturer string
	Category     string
	Package      string
	Description  string
	Datasheet    string
}

/*
	Create or open a library under root.
*/
func NewLibrary(root string) (*Library, error) {
	if err := os.MkdirAll(root, 0777); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(root, "elektros.db"), 0777, nil)
	if err != nil {
		return nil, err
	}

	db.Update(func(tx *bolt.Tx) error {
		tx.CreateBucketIfNotExists([]byte("parts"))
		tx.CreateBucketIfNotExists([]byte("associations"))
		tx.CreateBucketIfNotExists([]byte("soa"))

		return nil
	})

	var index bleve.Index
	ipath := filepath.Join(root, "elektros.index")
	if Exists(ipath) {
		index, err = bleve.Open(ipath)
	} else {
		index, err = bleve.New(ipath, bleve.NewIndexMapping())
	}
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Library{
		root:  root,
		db:    db,
		index: index,
	}, nil
}

func (l *Library) Close() error {
	l.index.Close()
	return l.db.Close()
}

/*
	Import a parts catalog from an excel sheet. Columns are, in order:
	mpn, manufacturer, category, package, description, datasheet.
*/
func (l *Library) Import(src string) error {
	f, err := excelize.OpenFile(src)
	if err != nil {
		return err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets in workbook: %s", src)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return err
	}

	chrows := make(chan []string, 100)
	go func() {
		for {
			if end := !rows.Next(); end {
				chrows <- []string{}

				return
			}

			row, err := rows.Columns()
			if err != nil {
				continue
			}

			if len(row) < 5 {
				continue
			}

			chrows <- row
		}
	}()

	/*
		amount per transaction
	*/
	k := 2000
	done := false
	for !done {
		batch := l.index.NewBatch()
		err := l.db.Update(func(tx *bolt.Tx) error {
			parts := tx.Bucket([]byte("parts"))
			for j := 0; j < k; j++ {
				row := <-chrows
				if len(row) == 0 {
					done = true
					return nil
				}

				part := partFromRow(row)
				if part == nil {
					continue
				}

				bytes, err := Marshal(part)
				if err != nil {
					return err
				}

				if err := parts.Put([]byte(part.MPN), bytes); err != nil {
					return err
				}

				if err := batch.Index(part.MPN, *part); err != nil {
					return err
				}
			}

			return nil
		})
		if err != nil {
			return err
		}

		if err := l.index.Batch(batch); err != nil {
			return err
		}
	}

	return nil
}

func partFromRow(row []string) *LibraryPart {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	part := &LibraryPart{
		MPN:          get(0),
		Manufacturer: get(1),
		Category:     get(2),
		Package:      get(3),
		Description:  get(4),
		Datasheet:    get(5),
	}

	/*
		skip the header row and anything without a part number
	*/
	if part.MPN == "" || strings.EqualFold(part.MPN, "mpn") {
		return nil
	}

	return part
}

/*
	Find library parts matching a search string.
*/
func (l *Library) Find(text string) []*LibraryPart {
	query := bleve.NewMatchQuery(text)
	request := bleve.NewSearchRequest(query)
	request.Size = 25

	result, err := l.index.Search(request)
	if err != nil {
		return []*LibraryPart{}
	}

	parts := []*LibraryPart{}
	for _, hit := range result.Hits {
		if part := l.Exact(hit.ID); part != nil {
			parts = append(parts, part)
		}
	}

	return parts
}

/*
	Exact returns the part stored under an mpn, or nil.
*/
func (l *Library) Exact(mpn string) *LibraryPart {
	var part *LibraryPart
	l.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte("parts")).Get([]byte(mpn))
		if data == nil {
			return nil
		}

		decoded := LibraryPart{}
		if err := Unmarshal(data, &decoded); err != nil {
			return nil
		}

		part = &decoded
		return nil
	})

	return part
}

/*
	Associate a BOM value with a catalog part, so later runs resolve the
	value without asking again.
*/
func (l *Library) Associate(value, mpn string) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte("associations")).Put(
			[]byte(strings.ToLower(value)), []byte(mpn))
	})
}

/*
	Resolve a BOM value to its associated part, or nil.
*/
func (l *Library) Resolve(value string) *LibraryPart {
	mpn := ""
	l.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket([]byte("associations")).Get([]byte(strings.ToLower(value))); data != nil {
			mpn = string(data)
		}
		return nil
	})

	if mpn == "" {
		return nil
	}

	return l.Exact(mpn)
}

/*
	CacheSOA stores an extracted limit set under an mpn.
*/
func (l *Library) CacheSOA(mpn string, limits *SOALimits) error {
	if mpn == "" || limits.Empty() {
		return nil
	}

	data, err := Marshal(limits)
	if err != nil {
		return err
	}

	return l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte("soa")).Put([]byte(mpn), data)
	})
}

/*
	CachedSOA returns the cached limit set for an mpn, or nil.
*/
func (l *Library) CachedSOA(mpn string) *SOALimits {
	if mpn == "" {
		return nil
	}

	var limits *SOALimits
	l.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte("soa")).Get([]byte(mpn))
		if data == nil {
			return nil
		}

		decoded := SOALimits{}
		if err := Unmarshal(data, &decoded); err != nil {
			return nil
		}

		limits = &decoded
		return nil
	})

	return limits
}
