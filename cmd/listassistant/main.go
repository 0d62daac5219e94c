package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/listassistant/bootstrap"
	"github.com/fulldump/listassistant/configuration"
)

var banner = `
 _     _     _      _            _     _              _   
| |   (_)___| |_   / \   ___ ___(_)___| |_ __ _ _ __ | |_ 
| |   | / __| __| / _ \ / __/ __| / __| __/ _' | '_ \| __|
| |___| \__ \ |_ / ___ \\__ \__ \ \__ \ || (_| | | | | |_ 
|_____|_|___/\__/_/   \_\___/___/_|___/\__\__,_|_| |_|\__|
                                        version ` + bootstrap.VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(&c)

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	start, _ := bootstrap.Bootstrap(&c)
	start()
}
