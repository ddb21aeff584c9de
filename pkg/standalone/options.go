package standalone

// Options are the parsed command-line settings. Absent optional values are nil.
type Options struct {
	Port                               *int
	Urls                               []string
	AllowPartialMapping                bool
	StartAdminInterface                bool
	ReadStaticMappings                 bool
	ProxyURL                           *string
	SaveMapping                        bool
	CertificateThumbprintOrSubjectName *string
	AdminUsername                      *string
	AdminPassword                      *string
	RequestLogExpirationDuration       *int
	MaxRequestLogCount                 *int
}

// DefaultOptions returns Options as parsed from an empty argument list.
func DefaultOptions() Options {
	return Options{
		StartAdminInterface: true,
		ReadStaticMappings:  true,
		SaveMapping:         true,
	}
}

func optionsFromValues(v Values) Options {
	return Options{
		Port:                               v.Int(FlagPort),
		Urls:                               v.Strings(FlagUrls),
		AllowPartialMapping:                v.Switch(FlagAllowPartialMapping),
		StartAdminInterface:                v.Switch(FlagStartAdminInterface),
		ReadStaticMappings:                 v.Switch(FlagReadStaticMappings),
		ProxyURL:                           v.String(FlagProxyURL),
		SaveMapping:                        v.Switch(FlagSaveProxyMapping),
		CertificateThumbprintOrSubjectName: v.String(FlagX509CertificateSelector),
		AdminUsername:                      v.String(FlagAdminUsername),
		AdminPassword:                      v.String(FlagAdminPassword),
		RequestLogExpirationDuration:       v.Int(FlagRequestLogExpirationDuration),
		MaxRequestLogCount:                 v.Int(FlagMaxRequestLogCount),
	}
}
