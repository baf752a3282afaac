package attendance

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"attendance-backend/internal/domain"
	"attendance-backend/internal/platform/apierr"
	"attendance-backend/internal/policy"
)

var exportHeader = []string{"user_id", "date", "department", "role", "attendance", "rectified"}

// Export は dashboard と同じ範囲を CSV にする。
// utf8 は表計算ソフト向けに BOM 付き、sjis は Windows の Excel 向け（CP932 相当）
func (s *Service) Export(ctx context.Context, caller domain.Caller, dateStr, enc string) ([]byte, string, error) {
	date, err := s.resolveDate(dateStr)
	if err != nil {
		return nil, "", err
	}
	encoder, err := csvEncoder(enc)
	if err != nil {
		return nil, "", err
	}
	scope := policy.ReadScope(caller)
	if scope.IdentityID != "" {
		return nil, "", apierr.Forbidden("export is available to managers and admins")
	}

	rows, err := s.store.List(ctx, ListFilter{Scope: scope, Date: date})
	if err != nil {
		return nil, "", err
	}

	var b bytes.Buffer
	tw := transform.NewWriter(&b, encoder)
	w := csv.NewWriter(tw)
	if err := w.Write(exportHeader); err != nil {
		return nil, "", err
	}
	for _, r := range rows {
		record := []string{r.IdentityID, r.Date, r.Department, r.Role.String(), r.Mark.String(), strconv.FormatBool(r.Rectified)}
		if err := w.Write(record); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}
	// Close で変換器に残った分を書き出す
	if err := tw.Close(); err != nil {
		return nil, "", err
	}
	return b.Bytes(), "attendance_" + date + ".csv", nil
}

func normalizeEncoding(enc string) string {
	if v := strings.ToLower(strings.TrimSpace(enc)); v != "" {
		return v
	}
	return EncodingUTF8
}

// contentType は Export に渡したものと同じ enc 値で呼ぶこと
func contentType(enc string) string {
	if normalizeEncoding(enc) == EncodingSJIS {
		return "text/csv; charset=Shift_JIS"
	}
	return "text/csv; charset=utf-8"
}

func csvEncoder(enc string) (*encoding.Encoder, error) {
	switch normalizeEncoding(enc) {
	case EncodingUTF8:
		return unicode.UTF8BOM.NewEncoder(), nil
	case EncodingSJIS:
		// 表現できない文字は置換して出力を止めない
		return encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder()), nil
	}
	return nil, apierr.Invalid("encoding must be utf8 or sjis")
}
