package acceptance

import (
	"encoding/json"
	"net/http"

	"github.com/voyago/identity-service/internal/dto"
)

func strPtr(s string) *string { return &s }

func (s *Suite) TestGetMe() {
	data := s.signup("me@example.com")

	resp, env := s.doJSON(http.MethodGet, "/api/v1/users/me", nil, data.Token)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.True(env.Success)

	var profile dto.Profile
	s.Require().NoError(json.Unmarshal(env.Data, &profile))
	s.Equal(data.User.ID, profile.ID)
	s.Equal("me@example.com", profile.Email)
	s.Equal("Test", profile.FirstName)
}

func (s *Suite) TestGetMe_NoToken() {
	resp, env := s.doJSON(http.MethodGet, "/api/v1/users/me", nil, "")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.False(env.Success)
}

func (s *Suite) TestUpdateMe() {
	data := s.signup("update@example.com")

	resp, env := s.doJSON(http.MethodPatch, "/api/v1/users/me", dto.UpdateProfileRequest{
		FirstName: strPtr("  Grace  "),
		Phone:     strPtr("+66812345678"),
	}, data.Token)
	s.Equal(http.StatusOK, resp.StatusCode)

	var profile dto.Profile
	s.Require().NoError(json.Unmarshal(env.Data, &profile))
	s.Equal("Grace", profile.FirstName)
	s.Equal("Traveler", profile.LastName)
	s.Require().NotNil(profile.Phone)
	s.Equal("+66812345678", *profile.Phone)

	// Empty string clears optional fields.
	resp, env = s.doJSON(http.MethodPatch, "/api/v1/users/me", dto.UpdateProfileRequest{
		Phone: strPtr(""),
	}, data.Token)
	s.Equal(http.StatusOK, resp.StatusCode)

	s.Require().NoError(json.Unmarshal(env.Data, &profile))
	s.Nil(profile.Phone)
	s.Equal("Grace", profile.FirstName)
}

func (s *Suite) TestUpdateMe_EmptyNameRejected() {
	data := s.signup("update-bad@example.com")

	resp, env := s.doJSON(http.MethodPatch, "/api/v1/users/me", dto.UpdateProfileRequest{
		FirstName: strPtr("   "),
	}, data.Token)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.False(env.Success)
}

func (s *Suite) TestAddRewardPoints() {
	data := s.signup("points@example.com")

	resp, env := s.postJSON("/api/v1/users/me/reward-points", dto.AddRewardPointsRequest{
		Delta: 250,
	}, data.Token)
	s.Equal(http.StatusOK, resp.StatusCode)

	var profile dto.Profile
	s.Require().NoError(json.Unmarshal(env.Data, &profile))
	s.Equal(250, profile.RewardPoints)

	resp, env = s.postJSON("/api/v1/users/me/reward-points", dto.AddRewardPointsRequest{
		Delta: 100,
	}, data.Token)
	s.Equal(http.StatusOK, resp.StatusCode)

	s.Require().NoError(json.Unmarshal(env.Data, &profile))
	s.Equal(350, profile.RewardPoints)
}
