package schema

// Built-in source types covering the two representative document shapes.
const (
	// SourceFlat documents carry the identifier and timestamp as
	// top-level scalar fields.
	SourceFlat = "flat"

	// SourceNested documents carry them under an "event" sub-object with
	// "header" and "body" sections.
	SourceNested = "nested"
)

// FlatContract returns the contract for the flat shape.
func FlatContract() *Contract {
	return &Contract{
		ErrorField:     "errorType",
		TimestampField: "timestamp",
		Required:       []string{"errorType", "timestamp", "rawData", "type"},
		Optional:       []string{"uuid"},
		Rules: map[string]FieldRule{
			"errorType": {Paths: []string{"errorType"}},
			"timestamp": {Paths: []string{"timestamp"}},
			"rawData":   {Paths: []string{"rawData"}, Default: ""},
			"type":      {Paths: []string{"type"}, Default: ""},
			"uuid":      {Paths: []string{"uuid"}, Default: ""},
		},
	}
}

// NestedContract returns the contract for the nested shape. Identifier
// and timestamp rules are presence-ordered fallback chains: the header
// location is preferred, a top-level field of the same name is accepted,
// and a document carrying neither yields null cells.
func NestedContract() *Contract {
	return &Contract{
		ErrorField:     "errorCode",
		TimestampField: "timestamp",
		Required:       []string{"errorCode", "errorDetails", "timestamp", "domain", "businessCode"},
		Optional:       []string{"transactionAmount", "merchantIdentifier"},
		Rules: map[string]FieldRule{
			"errorCode":          {Paths: []string{"event.header.errorCode", "errorCode"}},
			"errorDetails":       {Paths: []string{"event.header.errorDetails"}, Default: ""},
			"timestamp":          {Paths: []string{"dataSavedAtTimeStamp", "event.header.timestamp"}},
			"domain":             {Paths: []string{"event.header.domain"}, Default: ""},
			"businessCode":       {Paths: []string{"event.header.businessCode"}, Default: ""},
			"transactionAmount":  {Paths: []string{"event.body.transactionAmount"}},
			"merchantIdentifier": {Paths: []string{"event.body.merchantIdentifier"}},
		},
	}
}
