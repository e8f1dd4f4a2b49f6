package dto

// CreateMinerRequest payload for supervisor provisioning.
type CreateMinerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Phone      string `json:"phone_number"`
	MiningSite string `json:"mining_site"`
}

// UpdateMinerRequest payload. Role is not accepted; account roles are
// immutable after creation.
type UpdateMinerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone_number"`
	MiningSite string `json:"mining_site"`
}
