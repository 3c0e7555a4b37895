package regression

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"
)

// AuthHeader возвращает заголовки авторизованного JSON-запроса.
func AuthHeader(token string) http.Header {
	h := make(http.Header, 2)
	h.Set(headerAuthorization, "Bearer "+token)
	h.Set(headerContentType, contentTypeJSON)
	return h
}

// UniqueEmail возвращает короткий случайный email вида t<0..99999>@t.co.
func UniqueEmail() string {
	return fmt.Sprintf("t%d@t.co", rand.IntN(100000))
}

// UniqueSuffix возвращает n случайных цифр.
func UniqueSuffix(n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(byte('0' + rand.IntN(10)))
	}
	return b.String()
}

// StringPtr нужен для полей, где важно отличать null от пустой строки.
func StringPtr(s string) *string {
	return &s
}

// SampleJoin собирает валидную регистрацию с адресом.
func SampleJoin(username string) JoinRequest {
	return JoinRequest{
		Email:    UniqueEmail(),
		Password: "TestPass123!@",
		Username: StringPtr(username),
		Name:     "테스트유저",
		Role:     "ROLE_USER",
		AddressReq: &AddressRequest{
			Address:         "서울시 강남구",
			DetailedAddress: "테헤란로 123",
			ZipCode:         "06234",
		},
	}
}

// Retry выполняет fn, повторяя не более retries раз после неудачи.
// Между попытками ждёт backoff или отмены ctx.
func Retry(ctx context.Context, retries int, backoff time.Duration, fn func(attempt int) error) error {
	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if err = fn(attempt); err == nil {
			return nil
		}
		if attempt == retries {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted after %d attempts: %w", attempt+1, ctx.Err())
		case <-time.After(backoff):
		}
	}
	return err
}
