package identity

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Identity は認証情報のみを持つ。ロール・部署は profile 側。
type Identity struct {
	ID           string
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type IDGen interface {
	New(t time.Time) (string, error)
}

type ulidGen struct{}

func (ulidGen) New(t time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t.UTC()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// normalizeUserName: 見た目が同じ名前を同一視するため NFC に寄せる
func normalizeUserName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// normalizeEmail は大文字小文字を畳み込んだ形で保存・照合する。
// Caser は goroutine 間で共有できないので都度作る
func normalizeEmail(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}
