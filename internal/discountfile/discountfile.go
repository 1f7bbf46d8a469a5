// Package discountfile は割引コードのCSV（gzip可）を読む。
//
// 1行1コード: code,discountPercentage[,active]
// 先頭行が "code" で始まる場合はヘッダとして読み飛ばす。
package discountfile

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"football-store/internal/usecase"
)

// 行番号つきの読み取りエラー
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return "line " + strconv.Itoa(e.Line) + ": " + e.Err.Error()
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ファイルを開く。拡張子が .gz なら展開する
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}

	gz, err := pgzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "create gzip reader for %s", path)
	}
	return &gzipFile{Reader: gz, f: f}, nil
}

type gzipFile struct {
	*pgzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	gzErr := g.Reader.Close()
	if err := g.f.Close(); err != nil {
		return err
	}
	return gzErr
}

// 全行を読む。形式が壊れている行があればLineErrorを返す
func Read(ctx context.Context, r io.Reader) ([]usecase.DiscountInput, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []usecase.DiscountInput
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LineError{Line: n + 1, Err: err}
		}
		line, _ := cr.FieldPos(0)

		if isBlank(rec) {
			continue
		}
		if n == 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "code") {
			continue
		}

		row, err := parseRecord(rec)
		if err != nil {
			return nil, &LineError{Line: line, Err: err}
		}
		out = append(out, row)
	}
	return out, nil
}

func parseRecord(rec []string) (usecase.DiscountInput, error) {
	if len(rec) < 2 || len(rec) > 3 {
		return usecase.DiscountInput{}, errors.New("expected code,discountPercentage[,active]")
	}

	pct, err := strconv.Atoi(strings.TrimSpace(rec[1]))
	if err != nil {
		return usecase.DiscountInput{}, errors.Wrap(err, "discountPercentage")
	}

	row := usecase.DiscountInput{
		Code:               strings.TrimSpace(rec[0]),
		DiscountPercentage: pct,
	}
	if len(rec) == 3 && strings.TrimSpace(rec[2]) != "" {
		active, err := strconv.ParseBool(strings.TrimSpace(rec[2]))
		if err != nil {
			return usecase.DiscountInput{}, errors.Wrap(err, "active")
		}
		row.Active = &active
	}
	return row, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
