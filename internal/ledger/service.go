package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cleared-dev/budgetwatch/internal/id"
	"github.com/cleared-dev/budgetwatch/internal/model"
)

// Service reads and appends to a transactions.csv file.
type Service struct {
	path string
	loc  *time.Location
}

// NewService creates a ledger Service for the file at path.
func NewService(path string, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{path: path, loc: loc}
}

// Path returns the ledger file path.
func (s *Service) Path() string {
	return s.path
}

// All reads every transaction in file order. A missing file is an empty
// ledger.
func (s *Service) All() ([]model.Transaction, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", s.path, err)
	}
	defer f.Close()

	txns, err := ReadTransactions(f, s.loc)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", s.path, err)
	}
	return txns, nil
}

// Add validates tx and appends it. With assignID, a missing ID is filled
// with a fresh UUID. The stored transaction is returned.
func (s *Service) Add(tx model.Transaction, assignID bool) (model.Transaction, error) {
	added, err := s.AddAll([]model.Transaction{tx}, assignID)
	if err != nil {
		return model.Transaction{}, err
	}
	return added[0], nil
}

// AddAll validates every transaction and appends them in order. Nothing is
// written if any of them fails validation.
func (s *Service) AddAll(txns []model.Transaction, assignID bool) ([]model.Transaction, error) {
	if len(txns) == 0 {
		return nil, nil
	}

	out := make([]model.Transaction, len(txns))
	var msgs []string
	for i, tx := range txns {
		tx = prepare(tx, assignID)
		for _, ve := range Validate(tx) {
			msgs = append(msgs, ve.Error())
		}
		out[i] = tx
	}
	if len(msgs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}
	if err := s.appendRows(out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddValid appends the transactions that pass validation and returns the
// violations of the ones it skipped. Used for lenient sources such as API
// dumps, where one bad row should not block the rest.
func (s *Service) AddValid(txns []model.Transaction, assignID bool) ([]model.Transaction, []ValidationError, error) {
	var out []model.Transaction
	var skipped []ValidationError
	for _, tx := range txns {
		tx = prepare(tx, assignID)
		if errs := Validate(tx); len(errs) > 0 {
			skipped = append(skipped, errs...)
			continue
		}
		out = append(out, tx)
	}
	if len(out) == 0 {
		return nil, skipped, nil
	}
	if err := s.appendRows(out); err != nil {
		return nil, skipped, err
	}
	return out, skipped, nil
}

func prepare(tx model.Transaction, assignID bool) model.Transaction {
	if assignID && tx.ID == "" {
		tx.ID = id.NewTransactionID()
	}
	tx.Type, _ = model.ParseTransactionType(string(tx.Type))
	return tx
}

// appendRows appends rows to the ledger file, creating it with a header when
// missing.
func (s *Service) appendRows(rows []model.Transaction) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendTransactions(f, rows); err != nil {
		return fmt.Errorf("appending transactions: %w", err)
	}
	return nil
}
