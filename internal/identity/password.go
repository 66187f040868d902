package identity

import "unicode"

// PasswordStrength はパスワード文字列の強度を0〜4で採点する純関数。
// 採点基準（各+1）: 長さ8以上、大文字2文字以上、数字5文字以上、英数字以外1文字以上。
// 登録フォームの表示用であり、バリデーションとしては強制しない。
func PasswordStrength(password string) int {
	strength := 0

	if len(password) >= 8 {
		strength++
	}

	upper := 0
	digits := 0
	symbols := 0
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsDigit(r):
			digits++
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			symbols++
		}
	}

	if upper >= 2 {
		strength++
	}
	if digits >= 5 {
		strength++
	}
	if symbols >= 1 {
		strength++
	}

	return strength
}
