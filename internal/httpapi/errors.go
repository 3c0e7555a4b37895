package httpapi

import (
	"errors"
	"net/http"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
)

const messageInternal = "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요."

// apiError - HTTP-представление доменной ошибки.
type apiError struct {
	status  int
	message string
}

// errorTable сопоставляет доменные ошибки статусу и сообщению клиенту.
// Порядок важен только для ошибок, обёрнутых друг в друга.
var errorTable = []struct {
	err error
	apiError
}{
	{domain.ErrEmailRequired, apiError{http.StatusBadRequest, "이메일을 입력해주세요."}},
	{domain.ErrPasswordRequired, apiError{http.StatusBadRequest, "비밀번호를 입력해주세요."}},
	{domain.ErrUsernameRequired, apiError{http.StatusBadRequest, "아이디를 입력해주세요."}},
	{domain.ErrInvalidUsernameLength, apiError{http.StatusBadRequest, "아이디는 10자 이하로 입력해주세요."}},
	{domain.ErrDuplicateEmail, apiError{http.StatusBadRequest, "이메일이 중복됩니다."}},
	{domain.ErrDuplicateUsername, apiError{http.StatusBadRequest, "아이디가 중복됩니다."}},
	{domain.ErrMemberNotFound, apiError{http.StatusNotFound, "회원정보가 존재하지 않습니다."}},
	{domain.ErrInvalidCredentials, apiError{http.StatusUnauthorized, "아이디 또는 비밀번호가 일치하지 않습니다."}},
	{domain.ErrPasswordMismatch, apiError{http.StatusBadRequest, "이전 비밀번호가 일치 하지 않습니다."}},
	{domain.ErrInvalidToken, apiError{http.StatusUnauthorized, "유효하지 않은 토큰입니다."}},
	{domain.ErrUnauthorized, apiError{http.StatusUnauthorized, "인증이 필요합니다."}},
	{domain.ErrForbidden, apiError{http.StatusForbidden, "권한이 없습니다."}},
	{domain.ErrProductNotFound, apiError{http.StatusNotFound, "상품을 찾을 수 없습니다."}},
	{domain.ErrProductTitleRequired, apiError{http.StatusBadRequest, "상품명은 필수입니다."}},
	{domain.ErrProductPriceRequired, apiError{http.StatusBadRequest, "상품 가격은 필수입니다."}},
	{domain.ErrProductPriceInvalid, apiError{http.StatusBadRequest, "상품 가격은 0원보다 커야 합니다."}},
	{domain.ErrCategoryRequired, apiError{http.StatusBadRequest, "카테고리 ID는 필수입니다."}},
	{domain.ErrCategoryNotFound, apiError{http.StatusBadRequest, "존재하지 않는 카테고리입니다."}},
	{domain.ErrCartQuantityTooLarge, apiError{http.StatusBadRequest, "수량은 9999개 이하여야 합니다."}},
	{domain.ErrCartQuantityInvalid, apiError{http.StatusBadRequest, "수량은 1개 이상이어야 합니다."}},
	{domain.ErrCartEmpty, apiError{http.StatusBadRequest, "장바구니가 비어 있습니다."}},
	{domain.ErrOrderTotalOverflow, apiError{http.StatusBadRequest, "주문 금액이 허용 범위를 초과했습니다."}},
	{domain.ErrOrderNotFound, apiError{http.StatusNotFound, "주문을 찾을 수 없습니다."}},
	{domain.ErrInvalidRequest, apiError{http.StatusBadRequest, "잘못된 요청입니다."}},
}

// lookupError возвращает HTTP-представление ошибки; неизвестные ошибки дают 500.
func lookupError(err error) apiError {
	for _, entry := range errorTable {
		if errors.Is(err, entry.err) {
			return entry.apiError
		}
	}
	return apiError{http.StatusInternalServerError, messageInternal}
}
