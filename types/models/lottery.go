package models

// LotteryPageData is a struct to hold info for the lottery page
type LotteryPageData struct {
	ContractAddress  string   `json:"contract"`
	Manager          string   `json:"manager"`
	Participants     []string `json:"participants"`
	ParticipantCount int      `json:"participant_count"`
	BalanceWei       string   `json:"balance_wei"`
	BalanceEther     string   `json:"balance_ether"`
	EntryValue       string   `json:"entry_value"`
	MinimumEntry     string   `json:"minimum_entry"`
	Message          string   `json:"message"`
	Status           string   `json:"status"`
	Busy             bool     `json:"busy"`
	Loaded           bool     `json:"loaded"`
	LoadError        string   `json:"load_error,omitempty"`
}
