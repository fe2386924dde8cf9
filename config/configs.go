package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"
)

var Host string
var Port string
var Download string
var RegistryURL string
var DefaultNode string
var DBFileName string
var EngineProviders []string
var OpenBrowser bool
var MainConfig Config

type Config struct {
	XMLName         xml.Name `xml:"config"`
	Host            string   `xml:"host"`
	Port            string   `xml:"port"`
	Download        string   `xml:"download"`
	RegistryURL     string   `xml:"registry"`
	DefaultNode     string   `xml:"DefaultNode"`
	DBFileName      string   `xml:"DBFileName"`
	EngineProviders string   `xml:"EngineProviders"`
	OpenBrowser     string   `xml:"OpenBrowser"`
}

func init() {

	xmlFile, err := os.Open("config.xml")
	if err == nil {
		defer xmlFile.Close()
		xmlDecoder := xml.NewDecoder(xmlFile)
		err = xmlDecoder.Decode(&MainConfig)
		if err != nil {
			fmt.Println("Error  decoding  XML:", err)
		}
	}

	// 配置缺省值，保证无配置文件也能直接启动
	Host = MainConfig.Host
	if Host == "" {
		Host = "127.0.0.1"
	}
	Port = MainConfig.Port
	if Port == "" {
		Port = "8426"
	}
	Download = MainConfig.Download
	if Download == "" {
		Download = "./Download"
	}
	RegistryURL = MainConfig.RegistryURL
	if RegistryURL == "" {
		RegistryURL = "https://wuulong.github.io/walkgis/sources.json"
	}
	DefaultNode = MainConfig.DefaultNode
	if DefaultNode == "" {
		DefaultNode = "https://wuulong.github.io/walkgis_hackathon/"
	}
	DBFileName = MainConfig.DBFileName
	if DBFileName == "" {
		DBFileName = "walkgis.db"
	}
	if MainConfig.EngineProviders != "" {
		for _, name := range strings.Split(MainConfig.EngineProviders, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				EngineProviders = append(EngineProviders, name)
			}
		}
	} else {
		EngineProviders = []string{"sqlite3"}
	}
	OpenBrowser = MainConfig.OpenBrowser == "1" || strings.EqualFold(MainConfig.OpenBrowser, "true")
}
