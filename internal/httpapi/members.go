package httpapi

import (
	"net/http"

	"github.com/vladislavdragonenkov/shopcheck/internal/domain"
	"github.com/vladislavdragonenkov/shopcheck/internal/service/member"
)

type addressRequest struct {
	Address         string `json:"address"`
	DetailedAddress string `json:"detailedAddress"`
	ZipCode         string `json:"zipCode"`
}

func (a *addressRequest) toDomain() domain.Address {
	if a == nil {
		return domain.Address{}
	}
	return domain.Address{
		Address:         a.Address,
		DetailedAddress: a.DetailedAddress,
		ZipCode:         a.ZipCode,
	}
}

// joinRequest - тело регистрации. Поле role принимается, но роль задаёт маршрут.
type joinRequest struct {
	Email      string          `json:"email"`
	Password   string          `json:"password"`
	Username   string          `json:"username"`
	Name       string          `json:"name"`
	Role       string          `json:"role"`
	AddressReq *addressRequest `json:"addressReq"`
}

type joinResponse struct {
	MemberID int64  `json:"memberId"`
	Name     string `json:"name"`
	Message  string `json:"message"`
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	GrantType    string `json:"grantType"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type updateMemberRequest struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	AddressReq *addressRequest `json:"addressReq"`
}

// changePasswordRequest принимает и короткие имена полей curPw/newPw.
type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
	CurPw       string `json:"curPw"`
	NewPw       string `json:"newPw"`
}

type memberResponse struct {
	MemberID int64  `json:"memberId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func newTokenResponse(pair domain.TokenPair) tokenResponse {
	return tokenResponse{
		GrantType:    pair.GrantType,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}

func (h *handler) join(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req joinRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.writeError(w, r, err)
			return
		}

		created, err := h.members.Join(r.Context(), domain.JoinInput{
			Email:    req.Email,
			Password: req.Password,
			Username: req.Username,
			Name:     req.Name,
			Address:  req.AddressReq.toDomain(),
		}, role)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusAccepted, joinResponse{
			MemberID: created.ID,
			Name:     created.Name,
			Message:  "회원가입을 축하드립니다.",
		})
	}
}

func (h *handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	pair, err := h.members.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, newTokenResponse(pair))
}

func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	pair, err := h.members.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, newTokenResponse(pair))
}

func (h *handler) currentMember(w http.ResponseWriter, r *http.Request) {
	current, err := h.members.Current(r.Context(), principal(r).MemberID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, memberResponse{
		MemberID: current.ID,
		Username: current.Username,
		Email:    current.Email,
		Name:     current.Name,
		Role:     string(current.Role),
	})
}

func (h *handler) updateMember(w http.ResponseWriter, r *http.Request) {
	var req updateMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	in := member.UpdateInput{Name: req.Name, Email: req.Email}
	if req.AddressReq != nil {
		address := req.AddressReq.toDomain()
		in.Address = &address
	}
	if err := h.members.Update(r.Context(), principal(r).MemberID, in); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeText(w, http.StatusAccepted, "회원정보가 정상적으로 변경되었습니다.")
}

func (h *handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	oldPassword, newPassword := req.OldPassword, req.NewPassword
	if oldPassword == "" {
		oldPassword = req.CurPw
	}
	if newPassword == "" {
		newPassword = req.NewPw
	}

	if err := h.members.ChangePassword(r.Context(), principal(r).MemberID, oldPassword, newPassword); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeText(w, http.StatusAccepted, "비밀번호가 정상적으로 변경되었습니다.")
}

func (h *handler) deleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.members.Delete(r.Context(), principal(r), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeText(w, http.StatusAccepted, "회원탈퇴가 정상적으로 이루어졌습니다.")
}
