package openbanking

import (
	"time"

	"github.com/shopspring/decimal"
	"p2p-lending.backend/internal/domain/entities"
)

const bankLogo = "https://i.pinimg.com/1200x/a2/9d/29/a29d290535c8a5fd55f67631c7e454f1.jpg"

var vnBanks = []entities.Bank{
	{ID: "vcb", ShortName: "Vietcombank", Name: "Ngân hàng TMCP Ngoại thương Việt Nam", Logo: bankLogo},
	{ID: "tcb", ShortName: "Techcombank", Name: "Ngân hàng TMCP Kỹ thương Việt Nam", Logo: bankLogo},
	{ID: "mb", ShortName: "MB Bank", Name: "Ngân hàng TMCP Quân đội", Logo: bankLogo},
	{ID: "bidv", ShortName: "BIDV", Name: "Ngân hàng TMCP Đầu tư và Phát triển Việt Nam", Logo: bankLogo},
	{ID: "vpbank", ShortName: "VPBank", Name: "Ngân hàng TMCP Việt Nam Thịnh Vượng", Logo: bankLogo},
	{ID: "acb", ShortName: "ACB", Name: "Ngân hàng TMCP Á Châu", Logo: bankLogo},
	{ID: "tpbank", ShortName: "TPBank", Name: "Ngân hàng TMCP Tiên Phong", Logo: bankLogo},
	{ID: "vib", ShortName: "VIB", Name: "Ngân hàng TMCP Quốc tế Việt Nam", Logo: bankLogo},
	{ID: "msb", ShortName: "MSB", Name: "Ngân hàng TMCP Hàng Hải Việt Nam", Logo: bankLogo},
	{ID: "hdbank", ShortName: "HDBank", Name: "Ngân hàng TMCP Phát triển Thành phố Hồ Chí Minh", Logo: bankLogo},
}

// Accounts keyed by open-banking identity
var mockAccounts = map[string][]entities.BankAccount{
	"demo_user": {
		{
			ID:            "acc_vcb_01",
			BankID:        "vcb",
			AccountNumber: "0011001234567",
			AccountName:   "NGUYEN VAN A",
			Balance:       decimal.NewFromInt(150_000_000),
			Currency:      "VND",
			Type:          "CURRENT",
		},
		{
			ID:            "acc_tcb_01",
			BankID:        "tcb",
			AccountNumber: "19031234567890",
			AccountName:   "NGUYEN VAN A",
			Balance:       decimal.NewFromInt(50_000_000),
			Currency:      "VND",
			Type:          "SAVINGS",
		},
	},
}

// Transactions keyed by account id
var mockTransactions = map[string][]entities.BankTransaction{
	"acc_vcb_01": {
		{ID: "tx_01", AccountID: "acc_vcb_01", Amount: decimal.NewFromInt(5_000_000), Direction: entities.TransactionIn, Description: "LUONG THANG 1", Date: day(2026, time.January, 30), Counterparty: "CTY ABC"},
		{ID: "tx_02", AccountID: "acc_vcb_01", Amount: decimal.NewFromInt(200_000), Direction: entities.TransactionOut, Description: "THANH TOAN DIEN", Date: day(2026, time.February, 1), Counterparty: "EVN"},
		{ID: "tx_03", AccountID: "acc_vcb_01", Amount: decimal.NewFromInt(500_000), Direction: entities.TransactionOut, Description: "MUA SAM SHOPEE", Date: day(2026, time.February, 2), Counterparty: "SHOPEE"},
		{ID: "tx_04", AccountID: "acc_vcb_01", Amount: decimal.NewFromInt(1_000_000), Direction: entities.TransactionOut, Description: "CHUYEN TIEN", Date: day(2026, time.February, 3), Counterparty: "NGUYEN VAN B"},
	},
	"acc_tcb_01": {
		{ID: "tx_05", AccountID: "acc_tcb_01", Amount: decimal.NewFromInt(50_000_000), Direction: entities.TransactionIn, Description: "GUI TIET KIEM", Date: day(2025, time.December, 1)},
	},
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
