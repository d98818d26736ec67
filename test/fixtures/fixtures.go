package fixtures

import (
	"time"

	"github.com/mkarimz/deduction-gateway/internal/model"
)

const (
	Wallet1        = "0xAbCd000000000000000000000000000000000001"
	Wallet1Lower   = "0xabcd000000000000000000000000000000000001"
	Wallet2        = "0x1111000000000000000000000000000000000002"
	UnknownWallet  = "0x9999000000000000000000000000000000000099"
	UsdcMainnet    = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	SyntheticTxOne = "0x6b175474e89094c44da98b954eedeac495271d0f6b175474e89094c44da98b95"
)

func NewDeductionCreateRequest(walletAddress, amount string) model.DeductionCreateRequest {
	return model.DeductionCreateRequest{
		UserID:        1,
		WalletAddress: walletAddress,
		Amount:        amount,
		TokenSymbol:   "USDC",
		TokenAddress:  UsdcMainnet,
		Interval:      model.IntervalMonthly,
		Duration:      "6",
		StartDate:     time.Now().AddDate(0, 0, 1),
	}
}

func NewTransactionCreateRequest(deductionID int64, walletAddress, amount string) model.TransactionCreateRequest {
	return model.TransactionCreateRequest{
		DeductionID:   deductionID,
		WalletAddress: walletAddress,
		Amount:        amount,
		TokenSymbol:   "USDC",
		TokenAddress:  UsdcMainnet,
		Status:        "success",
		Date:          time.Now(),
		TxHash:        SyntheticTxOne,
	}
}

func NewUserCreateRequest(username string) model.UserCreateRequest {
	return model.UserCreateRequest{
		Username: username,
		Password: "correct horse battery staple",
	}
}
