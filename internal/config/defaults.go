package config

import "time"

// Hardcoded literals, the last layer of every precedence chain.
const (
	DefaultMountPath       = "/parse"
	DefaultPort            = 1337
	DefaultLocalConfigPath = "localConfig.json"

	defaultAppName          = "BaaSSample"
	defaultPublicServerURL  = "https://qtbaassample.herokuapp.com/parse"
	defaultCloudCodeMain    = "cloud/main.js"
	defaultEmailModule      = "simple-mailgun"
	defaultDashboardUser    = "admin"
	defaultDashboardPass    = "password"
	defaultPasswordPattern  = `^(?=.*[a-z])(?=.*[A-Z])(?=.*[0-9])(?=.{8,})`
	defaultPublicDir        = "public"
	defaultTestPage         = "public/test.html"
	defaultShutdownTimeout  = 10 * time.Second
	defaultTokenValidity    = 24 * time.Hour
	defaultLockoutDuration  = 5
	defaultLockoutThreshold = 3
	defaultDashboardProxies = 1
)

// literals returns the hardcoded layer. Boolean settings that default to
// false are left unset because false is their zero value.
func literals() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			AppName:         defaultAppName,
			PublicServerURL: defaultPublicServerURL,
			CloudCodeMain:   defaultCloudCodeMain,
			MountPath:       DefaultMountPath,
		},
		LiveQuery: LiveQuery{
			ClassNames: []string{"Posts", "Comments"},
		},
		Email: Email{
			VerifyUserEmails:                 true,
			EmailVerifyTokenValidityDuration: defaultTokenValidity,
		},
		EmailAdapter: EmailAdapter{
			Module: defaultEmailModule,
		},
		AccountLockout: AccountLockout{
			Duration:  defaultLockoutDuration,
			Threshold: defaultLockoutThreshold,
		},
		PasswordPolicy: PasswordPolicy{
			ValidatorPattern:           defaultPasswordPattern,
			DoNotAllowUsername:         true,
			ResetTokenValidityDuration: defaultTokenValidity,
		},
		Dashboard: Dashboard{
			AdminUser:     defaultDashboardUser,
			AdminPassword: defaultDashboardPass,
			TrustProxy:    defaultDashboardProxies,
		},
		Server: Server{
			Port:            DefaultPort,
			PublicDir:       defaultPublicDir,
			TestPage:        defaultTestPage,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		LocalConfigPath: DefaultLocalConfigPath,
	}
}
