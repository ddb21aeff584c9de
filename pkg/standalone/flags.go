package standalone

// Kind is the value type of a flag.
type Kind int

const (
	// KindString takes a string value.
	KindString Kind = iota
	// KindInt takes a base-10 integer value.
	KindInt
	// KindSwitch is a boolean switch: -Name sets it, -Name=false clears it.
	KindSwitch
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindSwitch:
		return "switch"
	default:
		return "string"
	}
}

// FlagSpec declares one recognized flag.
type FlagSpec struct {
	Name string
	Kind Kind
	// Optional flags may be omitted. Required flags missing from the
	// arguments fail the parse.
	Optional bool
	// Multiple allows the flag to be repeated; values accumulate in order.
	Multiple bool
	// Default is the textual default shown in usage. For switches it is
	// also the value used when the switch is absent.
	Default     string
	Description string
}

// Flag names.
const (
	FlagPort                         = "Port"
	FlagUrls                         = "Urls"
	FlagAllowPartialMapping          = "AllowPartialMapping"
	FlagStartAdminInterface          = "StartAdminInterface"
	FlagReadStaticMappings           = "ReadStaticMappings"
	FlagProxyURL                     = "ProxyURL"
	FlagSaveProxyMapping             = "SaveProxyMapping"
	FlagX509CertificateSelector      = "X509Certificate2ThumbprintOrSubjectName"
	FlagAdminUsername                = "AdminUsername"
	FlagAdminPassword                = "AdminPassword"
	FlagRequestLogExpirationDuration = "RequestLogExpirationDuration"
	FlagMaxRequestLogCount           = "MaxRequestLogCount"
)

// DefaultFlags returns the registry of flags understood by the standalone
// server, in usage order.
func DefaultFlags() []FlagSpec {
	return []FlagSpec{
		{Name: FlagPort, Kind: KindInt, Optional: true, Description: "Port to listen on, overrides Urls"},
		{Name: FlagUrls, Kind: KindString, Optional: true, Multiple: true, Default: "http://localhost:9091/", Description: "URL(s) to listen on"},
		{Name: FlagAllowPartialMapping, Kind: KindSwitch, Optional: true, Default: "false", Description: "Serve the best partially matching mapping when none matches fully"},
		{Name: FlagStartAdminInterface, Kind: KindSwitch, Optional: true, Default: "true", Description: "Start the admin interface"},
		{Name: FlagReadStaticMappings, Kind: KindSwitch, Optional: true, Default: "true", Description: "Read static mappings from the mappings directory"},
		{Name: FlagProxyURL, Kind: KindString, Optional: true, Description: "Proxy unmatched requests to this URL and record them"},
		{Name: FlagSaveProxyMapping, Kind: KindSwitch, Optional: true, Default: "true", Description: "Save proxied exchanges as mapping files"},
		{Name: FlagX509CertificateSelector, Kind: KindString, Optional: true, Description: "Thumbprint or subject name of the client certificate used for proxied requests"},
		{Name: FlagAdminUsername, Kind: KindString, Optional: true, Description: "Username for admin interface basic auth"},
		{Name: FlagAdminPassword, Kind: KindString, Optional: true, Description: "Password for admin interface basic auth"},
		{Name: FlagRequestLogExpirationDuration, Kind: KindInt, Optional: true, Description: "Request log retention in hours"},
		{Name: FlagMaxRequestLogCount, Kind: KindInt, Optional: true, Description: "Maximum number of retained request log entries"},
	}
}
