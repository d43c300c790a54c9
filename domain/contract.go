package domain

// ParamType enumerates the parameter and return types the contract call form
// knows how to render. Interfaces inferred by the agent are rejected unless
// every type is drawn from this set.
type ParamType string

const (
	ParamU32     ParamType = "u32"
	ParamI32     ParamType = "i32"
	ParamU64     ParamType = "u64"
	ParamI64     ParamType = "i64"
	ParamU128    ParamType = "u128"
	ParamI128    ParamType = "i128"
	ParamBool    ParamType = "bool"
	ParamSymbol  ParamType = "symbol"
	ParamAddress ParamType = "address"
	ParamBytes   ParamType = "bytes"
	ParamString  ParamType = "string"
	ParamVec     ParamType = "vec"
	ParamMap     ParamType = "map"
	ParamVoid    ParamType = "void"
)

func ValidParamType(t ParamType) bool {
	switch t {
	case ParamU32, ParamI32, ParamU64, ParamI64, ParamU128, ParamI128,
		ParamBool, ParamSymbol, ParamAddress, ParamBytes, ParamString,
		ParamVec, ParamMap, ParamVoid:
		return true
	}
	return false
}

type ContractParam struct {
	Name string    `json:"name"`
	Type ParamType `json:"type"`
}

type ContractFunction struct {
	Name    string          `json:"name"`
	Params  []ContractParam `json:"params"`
	Returns ParamType       `json:"returns"`
}

// ContractInterface is an inferred, non-authoritative list of callable
// contract functions, derived by the external agent from source text.
type ContractInterface struct {
	Functions []ContractFunction `json:"functions"`
}
