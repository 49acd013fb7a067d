package config

import (
	"net/http"
	"net/url"
	"time"
)

type proxyConfig struct {
	URL string `yaml:"url"`
}

func httpClient(proxy *proxyConfig, timeout time.Duration) (*http.Client, error) {
	client := &http.Client{
		Timeout: timeout,
	}

	if proxy == nil || proxy.URL == "" {
		return client, nil
	}

	proxyURL, err := url.Parse(proxy.URL)

	if err != nil {
		return nil, err
	}

	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.Proxy = http.ProxyURL(proxyURL)

	client.Transport = tr

	return client, nil
}
