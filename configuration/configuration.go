package configuration

type Configuration struct {
	HttpAddr          string `usage:"HTTP address"`
	HttpsEnabled      bool   `usage:"serve HTTPS"`
	HttpsSelfsigned   bool   `usage:"use a self signed certificate, requires HttpsEnabled"`
	Dir               string `usage:"directory with JSON lines files loaded as lists on start"`
	Statics           string `usage:"statics directory, empty serves the embedded console"`
	EnableCompression bool   `usage:"gzip responses"`
	ApiKey            string `usage:"api key, empty disables authentication"`
	ApiSecret         string `usage:"api secret"`
	PageSize          int    `usage:"default page size for new lists, 0 disables pagination"`
	ReloadLimit       int    `usage:"batches with more changes are sent as a reload, 0 means no limit"`
	Version           bool   `usage:"show version and exit"`
	ShowBanner        bool   `usage:"show big banner"`
	ShowConfig        bool   `usage:"print config"`
}

func Default() Configuration {
	return Configuration{
		HttpAddr:          "127.0.0.1:8080",
		Dir:               "",
		Statics:           "",
		EnableCompression: true,
		PageSize:          0,
		ReloadLimit:       1000,
		ShowBanner:        true,
		ShowConfig:        false,
	}
}
