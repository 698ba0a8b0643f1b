package dto

// ==============================================
// FEE PAYER OPTIONS
// ==============================================

// UserFeePayerSchema names an account that pays fees instead of the global fee payer.
var UserFeePayerSchema = NewSchema("userFeePayer",
	Field{"krn", NonEmptyString},
	Field{"address", Address},
)

// FeePayerOptionsSchema decides who pays transaction fees for contract operations.
var FeePayerOptionsSchema = NewSchema("feePayerOptions",
	Field{"enableGlobalFeePayer", Bool},
	Field{"userFeePayer", Nested(UserFeePayerSchema)},
)

// ContractOptionsSchema is the body of a contract options update.
var ContractOptionsSchema = NewSchema("contractOptionsRequest",
	Field{"options", Nested(FeePayerOptionsSchema)},
)

// ==============================================
// KIP-7 REQUEST DTOs
// ==============================================

var KIP7DeploySchema = NewSchema("kip7DeployRequest",
	Field{"alias", Alias},
	Field{"name", NonEmptyString},
	Field{"symbol", NonEmptyString},
	Field{"decimals", IntRange(0, 255)},
	Field{"initialSupply", HexQuantity},
	Field{"options", Nested(FeePayerOptionsSchema)},
)

var KIP7MintSchema = NewSchema("kip7MintRequest",
	Field{"to", Address},
	Field{"amount", HexQuantity},
	Field{"from", Address},
)

var KIP7TransferSchema = NewSchema("kip7TransferRequest",
	Field{"to", Address},
	Field{"amount", HexQuantity},
	Field{"from", Address},
)

var KIP7TransferFromSchema = NewSchema("kip7TransferFromRequest",
	Field{"spender", Address},
	Field{"owner", Address},
	Field{"to", Address},
	Field{"amount", HexQuantity},
)

var KIP7ApproveSchema = NewSchema("kip7ApproveRequest",
	Field{"spender", Address},
	Field{"amount", HexQuantity},
	Field{"from", Address},
)

var KIP7BurnSchema = NewSchema("kip7BurnRequest",
	Field{"amount", HexQuantity},
	Field{"from", Address},
)

// KIP7PauseSchema serves both pause and unpause.
var KIP7PauseSchema = NewSchema("kip7PauseRequest",
	Field{"from", Address},
)

// ==============================================
// KIP-17 REQUEST DTOs
// ==============================================

var KIP17DeploySchema = NewSchema("kip17DeployRequest",
	Field{"alias", Alias},
	Field{"name", NonEmptyString},
	Field{"symbol", NonEmptyString},
	Field{"options", Nested(FeePayerOptionsSchema)},
)

var KIP17MintSchema = NewSchema("kip17MintRequest",
	Field{"to", Address},
	Field{"id", HexQuantity},
	Field{"uri", NonEmptyString},
)

var KIP17TransferSchema = NewSchema("kip17TransferRequest",
	Field{"sender", Address},
	Field{"owner", Address},
	Field{"to", Address},
)

var KIP17BurnSchema = NewSchema("kip17BurnRequest",
	Field{"from", Address},
)

// ==============================================
// WALLET REQUEST DTOs
// ==============================================

var ValueTransferSchema = NewSchema("valueTransferRequest",
	Field{"from", Address},
	Field{"to", Address},
	Field{"value", HexQuantity},
	Field{"memo", String},
	Field{"nonce", IntRange(0, 1<<53)},
	Field{"gasLimit", IntRange(0, 1<<53)},
	Field{"submit", Bool},
)

// ==============================================
// NODE REQUEST DTOs
// ==============================================

// JSONRPCVersion is the only protocol version the node proxy speaks.
const JSONRPCVersion = "2.0"

var NodeRPCSchema = NewSchema("nodeRPCRequest",
	Field{"jsonrpc", Enum(JSONRPCVersion)},
	Field{"method", NonEmptyString},
	Field{"params", Params},
	Field{"id", IntRange(0, 1<<53)},
)
