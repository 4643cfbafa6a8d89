package service

import (
	"errors"

	"anonworld/internal/pkg"
)

var ErrUnknownCredential = errors.New("unknown credential type")

type CredentialService struct{}

func NewCredentialService() *CredentialService {
	return &CredentialService{}
}

func (s *CredentialService) List() []pkg.Credential {
	return pkg.Credentials()
}

func (s *CredentialService) Get(credentialType string) (pkg.Credential, error) {
	c, ok := pkg.GetCredential(pkg.CredentialType(credentialType))
	if !ok {
		return pkg.Credential{}, ErrUnknownCredential
	}
	return c, nil
}
