package sobriety

type CreateSlipUpRequest struct {
	SlipUpDate          string  `json:"slipUpDate"`
	RecoveryRestartDate string  `json:"recoveryRestartDate"`
	Notes               *string `json:"notes"`
}

type UpdateProfileRequest struct {
	SobrietyDate *string `json:"sobrietyDate"`
	Timezone     *string `json:"timezone"`
}
