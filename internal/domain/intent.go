package domain

// IntentKind enumerates the structured commands the conversational
// front end delivers. Parsing free-form callback data into these is a
// boundary concern of the front end, not of this engine.
type IntentKind string

const (
	IntentStartWallet   IntentKind = "START_WALLET"
	IntentCreateWallet  IntentKind = "CREATE_WALLET"
	IntentImportWallet  IntentKind = "IMPORT_WALLET"
	IntentDeleteWallet  IntentKind = "DELETE_WALLET"
	IntentExportKey     IntentKind = "EXPORT_KEY"
	IntentShowSettings  IntentKind = "SHOW_SETTINGS"
	IntentUpdateSetting IntentKind = "UPDATE_SETTING"
	IntentInitiateTrade IntentKind = "INITIATE_TRADE"
	IntentConfirmAmount IntentKind = "CONFIRM_AMOUNT"
	IntentListPositions IntentKind = "LIST_POSITIONS"
	IntentWithdraw      IntentKind = "WITHDRAW"
	IntentCancel        IntentKind = "CANCEL"
	IntentFreeText      IntentKind = "FREE_TEXT"
)

// Intent is one inbound conversational event.
type Intent struct {
	Kind IntentKind

	// IMPORT_WALLET
	Secret string

	// UPDATE_SETTING
	Settings SettingsPatch

	// INITIATE_TRADE / CONFIRM_AMOUNT
	TokenMint string
	Direction TradeDirection
	Amount    float64 // SOL for buys, percent for sells
	HasAmount bool    // false on INITIATE_TRADE opens the amount flow

	// WITHDRAW
	ToAddress   string
	WithdrawAll bool

	// FREE_TEXT
	Text string
}

// ResultKind tags the payload the front end renders.
type ResultKind string

const (
	ResultWalletStatus ResultKind = "WALLET_STATUS"
	ResultWalletKey    ResultKind = "WALLET_KEY"
	ResultSettings     ResultKind = "SETTINGS"
	ResultAwaiting     ResultKind = "AWAITING_INPUT"
	ResultTrade        ResultKind = "TRADE"
	ResultPositions    ResultKind = "POSITIONS"
	ResultWithdrawal   ResultKind = "WITHDRAWAL"
	ResultCancelled    ResultKind = "CANCELLED"
	ResultIgnored      ResultKind = "IGNORED"
)

// Result is the payload returned to the front end. Err carries the
// taxonomy error when the operation failed; the remaining fields are
// populated per Kind.
type Result struct {
	Kind ResultKind
	Err  error

	PublicKey  string
	BalanceSOL float64
	HasWallet  bool

	// WALLET_KEY: plaintext secret plus the recommended exposure window
	// in milliseconds. The caller owns scoping the exposure.
	Secret         string
	ExposeForMs    int64
	WalletExisted  bool // DELETE_WALLET
	PendingCleared bool // CANCEL

	Settings  *Settings
	Positions []Position
	Trade     *TradeResult
	Awaiting  PendingKind

	// WITHDRAWAL
	Signature   string
	LamportsOut uint64
}
