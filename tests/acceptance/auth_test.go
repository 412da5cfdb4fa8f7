package acceptance

import (
	"encoding/json"
	"net/http"

	"github.com/voyago/identity-service/internal/dto"
)

func (s *Suite) TestSignup_Success() {
	resp, env := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Email:     "Ada.Lovelace@Example.com",
		Password:  "Password123",
		FirstName: "Ada",
		LastName:  "Lovelace",
	}, "")

	s.Equal(http.StatusCreated, resp.StatusCode)
	s.True(env.Success)

	var data authData
	s.Require().NoError(json.Unmarshal(env.Data, &data))

	s.NotEmpty(data.Token)
	s.Equal("ada.lovelace@example.com", data.User.Email)
	s.Equal(0, data.User.RewardPoints)
	s.False(data.User.EmailVerified)

	// The projection never carries secrets.
	s.NotContains(string(env.Data), "password")
	s.NotContains(string(env.Data), "verification_code")
}

func (s *Suite) TestSignup_DuplicateEmail() {
	s.signup("duplicate@example.com")

	resp, env := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Email:     "Duplicate@Example.com",
		Password:  "Password123",
		FirstName: "Someone",
		LastName:  "Else",
	}, "")

	s.Equal(http.StatusConflict, resp.StatusCode)
	s.False(env.Success)
	s.NotEmpty(env.Error)
}

func (s *Suite) TestSignup_InvalidEmail() {
	resp, _ := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Email:     "not-an-email",
		Password:  "Password123",
		FirstName: "A",
		LastName:  "B",
	}, "")

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_Success() {
	s.signup("login@example.com")

	resp, env := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "Login@Example.com",
		Password: "Password123",
	}, "")

	s.Equal(http.StatusOK, resp.StatusCode)
	s.True(env.Success)
}

func (s *Suite) TestLogin_FailuresIndistinguishable() {
	s.signup("login-fail@example.com")

	respWrongPassword, envWrongPassword := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "login-fail@example.com",
		Password: "WrongPassword1",
	}, "")
	respUnknownEmail, envUnknownEmail := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "Password123",
	}, "")

	s.Equal(http.StatusUnauthorized, respWrongPassword.StatusCode)
	s.Equal(http.StatusUnauthorized, respUnknownEmail.StatusCode)
	s.Equal(envWrongPassword, envUnknownEmail)
	s.Contains(envWrongPassword.Error, "invalid email or password")
}

func (s *Suite) TestLogout_RevokedTokenRejected() {
	data := s.signup("logout@example.com")

	resp, _ := s.doJSON(http.MethodGet, "/api/v1/users/me", nil, data.Token)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, env := s.postJSON("/api/v1/auth/logout", nil, data.Token)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.True(env.Success)

	// The token's own expiry is days away, but it must now be rejected.
	resp, env = s.doJSON(http.MethodGet, "/api/v1/users/me", nil, data.Token)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Contains(env.Error, "revoked")

	// The ledger entry self-expires with the token.
	key := "revoked:token:" + data.Token
	ttl := s.Redis.Client.TTL(s.ctx, key).Val()
	s.Positive(ttl.Seconds())
}

func (s *Suite) TestVerifyEmail_Flow() {
	data := s.signup("verify@example.com")
	code := s.verificationCode("verify@example.com")

	resp, env := s.postJSON("/api/v1/auth/verify-email", dto.VerifyOTPRequest{
		Email: "verify@example.com",
		OTP:   code,
	}, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.True(env.Success)

	resp, _ = s.doJSON(http.MethodGet, "/api/v1/users/me", nil, data.Token)
	s.Equal(http.StatusOK, resp.StatusCode)

	// A second attempt reports the terminal state.
	resp, env = s.postJSON("/api/v1/auth/verify-email", dto.VerifyOTPRequest{
		Email: "verify@example.com",
		OTP:   code,
	}, "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(env.Error, "already verified")
}

func (s *Suite) TestVerifyEmail_WrongCode() {
	s.signup("verify-wrong@example.com")
	code := s.verificationCode("verify-wrong@example.com")

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	resp, env := s.postJSON("/api/v1/auth/verify-email", dto.VerifyOTPRequest{
		Email: "verify-wrong@example.com",
		OTP:   wrong,
	}, "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.False(env.Success)
}

func (s *Suite) TestResendVerification_RotatesCode() {
	s.signup("resend@example.com")
	oldCode := s.verificationCode("resend@example.com")

	resp, env := s.postJSON("/api/v1/auth/resend-verification", dto.ForgotPasswordRequest{
		Email: "resend@example.com",
	}, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.True(env.Success)

	newCode := s.verificationCode("resend@example.com")
	if oldCode != newCode {
		resp, _ = s.postJSON("/api/v1/auth/verify-email", dto.VerifyOTPRequest{
			Email: "resend@example.com",
			OTP:   oldCode,
		}, "")
		s.Equal(http.StatusBadRequest, resp.StatusCode)
	}

	resp, _ = s.postJSON("/api/v1/auth/verify-email", dto.VerifyOTPRequest{
		Email: "resend@example.com",
		OTP:   newCode,
	}, "")
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestForgotPassword_UniformResponse() {
	s.signup("forgot@example.com")

	respRegistered, envRegistered := s.postJSON("/api/v1/auth/forgot-password", dto.ForgotPasswordRequest{
		Email: "forgot@example.com",
	}, "")
	respUnknown, envUnknown := s.postJSON("/api/v1/auth/forgot-password", dto.ForgotPasswordRequest{
		Email: "ghost@example.com",
	}, "")

	s.Equal(http.StatusOK, respRegistered.StatusCode)
	s.Equal(http.StatusOK, respUnknown.StatusCode)
	s.Equal(envRegistered, envUnknown)
	s.True(envUnknown.Success)
}

func (s *Suite) TestResetPassword_Flow() {
	s.signup("reset@example.com")

	resp, _ := s.postJSON("/api/v1/auth/forgot-password", dto.ForgotPasswordRequest{
		Email: "reset@example.com",
	}, "")
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	code := s.resetCode("reset@example.com")

	resp, env := s.postJSON("/api/v1/auth/verify-reset-otp", dto.VerifyOTPRequest{
		Email: "reset@example.com",
		OTP:   code,
	}, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.True(env.Success)

	resp, env = s.postJSON("/api/v1/auth/reset-password", dto.ResetPasswordRequest{
		Email:       "reset@example.com",
		OTP:         code,
		NewPassword: "NewPassword456",
	}, "")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.True(env.Success)

	// The consumed code is gone.
	resp, _ = s.postJSON("/api/v1/auth/reset-password", dto.ResetPasswordRequest{
		Email:       "reset@example.com",
		OTP:         code,
		NewPassword: "YetAnother789",
	}, "")
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "reset@example.com",
		Password: "Password123",
	}, "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "reset@example.com",
		Password: "NewPassword456",
	}, "")
	s.Equal(http.StatusOK, resp.StatusCode)
}
