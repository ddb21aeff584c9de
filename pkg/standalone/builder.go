package standalone

import "github.com/getmockd/mockd-standalone/pkg/config"

// BuildConfiguration maps parsed options onto the server configuration.
// Overlapping inputs are resolved by precedence, never rejected.
func BuildConfiguration(opts Options) config.ServerConfiguration {
	if len(opts.Urls) == 0 && opts.Port == nil {
		opts.Urls = []string{config.DefaultURL}
	}

	cfg := config.ServerConfiguration{
		StartAdminInterface:          opts.StartAdminInterface,
		ReadStaticMappings:           opts.ReadStaticMappings,
		AllowPartialMapping:          opts.AllowPartialMapping,
		AdminUsername:                deref(opts.AdminUsername),
		AdminPassword:                deref(opts.AdminPassword),
		MaxRequestLogCount:           copyInt(opts.MaxRequestLogCount),
		RequestLogExpirationDuration: copyInt(opts.RequestLogExpirationDuration),
	}
	resolveListenAddress(&cfg, opts)
	cfg.ProxyAndRecord = resolveProxy(opts)
	return cfg
}

// resolveListenAddress applies the listen address precedence: an explicit
// port always wins and leaves Urls unset, even when URLs were also given.
func resolveListenAddress(cfg *config.ServerConfiguration, opts Options) {
	if opts.Port != nil {
		cfg.Port = copyInt(opts.Port)
		cfg.Urls = nil
		return
	}
	cfg.Urls = append([]string(nil), opts.Urls...)
}

// resolveProxy returns proxy settings only when a non-empty proxy URL was given.
func resolveProxy(opts Options) *config.ProxyAndRecordSettings {
	if opts.ProxyURL == nil || *opts.ProxyURL == "" {
		return nil
	}
	return &config.ProxyAndRecordSettings{
		URL:                                     *opts.ProxyURL,
		SaveMapping:                             opts.SaveMapping,
		X509Certificate2ThumbprintOrSubjectName: deref(opts.CertificateThumbprintOrSubjectName),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
