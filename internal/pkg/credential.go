package pkg

type CredentialType string

const (
	CredentialERC20Balance  CredentialType = "ERC20_BALANCE"
	CredentialERC721Balance CredentialType = "ERC721_BALANCE"
	CredentialFarcasterFid  CredentialType = "FARCASTER_FID"
)

type Credential struct {
	Type CredentialType `json:"type"`
	Name string         `json:"name"`
}

// 固定的凭证列表，进程内只读
var credentials = [...]Credential{
	{Type: CredentialERC20Balance, Name: "ERC20 Balance"},
	{Type: CredentialERC721Balance, Name: "ERC721 Owner"},
	{Type: CredentialFarcasterFid, Name: "Farcaster FID"},
}

// Credentials 返回全部凭证的副本
func Credentials() []Credential {
	list := make([]Credential, len(credentials))
	copy(list, credentials[:])
	return list
}

// GetCredential 未知类型返回 false，不报错
func GetCredential(t CredentialType) (Credential, bool) {
	for _, c := range credentials {
		if c.Type == t {
			return c, true
		}
	}
	return Credential{}, false
}

func ParseCredentialType(s string) (CredentialType, bool) {
	c, ok := GetCredential(CredentialType(s))
	return c.Type, ok
}
