package auth

import "golang.org/x/crypto/bcrypt"

// bcrypt は 72 バイトを超える入力を受け付けない
const MaxPasswordBytes = 72

var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// 存在しないユーザーでも比較時間を揃えるためのダミーハッシュ
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("attendance-backend/dummy"), bcrypt.DefaultCost)

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// BurnCompare runs a comparison whose result is discarded.
func BurnCompare(pw string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(pw))
}
