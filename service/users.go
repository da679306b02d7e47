package service

import (
	"errors"

	"github.com/sdsdc/bibliotheque/data"
	"github.com/sdsdc/bibliotheque/data/dto"
	"github.com/sdsdc/bibliotheque/internal/validator"
	"github.com/sdsdc/bibliotheque/repository"
)

type users interface {
	RegisterUser(requestBody dto.RegisterUserRequestBody) (*data.User, string, error)
	LoginUser(requestBody dto.LoginRequestBody) (*data.User, string, error)
	GetUserProfile(userID int64) (*data.User, error)
	GetUserFromToken(tokenString string) (*data.User, error)
}

// RegisterUser creates a reader account and returns it with a signed access
// token, so the client is logged in straight away. A welcome email goes out
// in the background.
func (s *service) RegisterUser(requestBody dto.RegisterUserRequestBody) (*data.User, string, error) {
	user := &data.User{
		Email:     requestBody.Email,
		FirstName: requestBody.FirstName,
		LastName:  requestBody.LastName,
		Role:      data.RoleUser,
	}
	err := user.Password.Set(requestBody.Password)
	if err != nil {
		return nil, "", err
	}
	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		return nil, "", failedValidation(v.Errors)
	}
	err = s.repo.RegisterUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, "", ErrDuplicateRecord
		default:
			return nil, "", err
		}
	}
	accessToken, err := s.tokens.Sign(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	s.background(func() {
		err = s.mailer.Send(user.Email, "welcome.tmpl", user)
		if err != nil {
			s.logger.PrintError(err, nil)
		}
	})
	return user, accessToken, nil
}

// LoginUser verifies the credentials and returns the account with a signed
// access token. An unknown email and a wrong password produce the same
// error so the response does not reveal which one failed.
func (s *service) LoginUser(requestBody dto.LoginRequestBody) (*data.User, string, error) {
	v := validator.New()
	data.ValidateEmail(v, requestBody.Email)
	data.ValidatePasswordPlaintext(v, requestBody.Password)
	if !v.Valid() {
		return nil, "", failedValidation(v.Errors)
	}
	user, err := s.repo.GetUserByEmail(requestBody.Email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, "", ErrInvalidCredentials
		default:
			return nil, "", err
		}
	}
	match, err := user.Password.Matches(requestBody.Password)
	if err != nil {
		return nil, "", err
	}
	if !match {
		return nil, "", ErrInvalidCredentials
	}
	accessToken, err := s.tokens.Sign(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, accessToken, nil
}

// GetUserProfile retrieves the account for the given id.
func (s *service) GetUserProfile(userID int64) (*data.User, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}

// GetUserFromToken parses the access token and loads the account it names.
// A token that fails verification yields ErrInvalidToken; a token whose
// account no longer exists yields ErrRecordNotFound.
func (s *service) GetUserFromToken(tokenString string) (*data.User, error) {
	claims, err := s.tokens.Parse(tokenString)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.repo.GetUserByID(claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}
