package models

// Network is a retail chain (rede).
type Network struct {
	ID   uint   `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;type:text;not null;uniqueIndex"`
}

// NetworkProduct links a network to a product it offers.
type NetworkProduct struct {
	NetworkID   uint   `gorm:"column:network_id;primaryKey;autoIncrement:false"`
	ProductCode string `gorm:"column:product_code;type:text;primaryKey"`
}

// NetworkStore links a network to one of its stores.
type NetworkStore struct {
	NetworkID uint `gorm:"column:network_id;primaryKey;autoIncrement:false"`
	StoreID   uint `gorm:"column:store_id;primaryKey;autoIncrement:false"`
}
