package model

const (
	TokenTypeERC20  = "ERC20"
	TokenTypeERC721 = "ERC721"
)

type Token struct {
	ID       string `gorm:"primaryKey;size:128" json:"id"`
	ChainID  int64  `gorm:"not null" json:"chain_id"`
	Address  string `gorm:"size:64;not null" json:"address"`
	Type     string `gorm:"size:16;not null" json:"type"` // ERC20 / ERC721
	Symbol   string `gorm:"size:32" json:"symbol"`
	Name     string `gorm:"size:128" json:"name"`
	Decimals int    `gorm:"not null;default:0" json:"decimals"`
	ImageURL string `gorm:"size:512" json:"image_url"`
	PriceUSD string `gorm:"size:64" json:"price_usd"`
}
