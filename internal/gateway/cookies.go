package gateway

import (
	"bufio"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCookieJar reads a Netscape-format cookies.txt file (the format browser
// exporters and yt-dlp produce) into a cookie jar for upstream media fetches.
// Lines are: domain, include-subdomains, path, secure, expiry, name, value,
// tab-separated; comment lines start with "#" except the "#HttpOnly_" domain
// prefix some exporters emit.
func LoadCookieJar(path string) (http.CookieJar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	byHost := make(map[string][]*http.Cookie)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") && !strings.HasPrefix(line, "#HttpOnly_") {
			continue
		}
		line = strings.TrimPrefix(line, "#HttpOnly_")

		fields := strings.Split(line, "\t")
		if len(fields) < 7 {
			continue
		}

		domain := strings.TrimPrefix(fields[0], ".")
		expiry, _ := strconv.ParseInt(fields[4], 10, 64)
		cookie := &http.Cookie{
			Name:   fields[5],
			Value:  fields[6],
			Path:   fields[2],
			Domain: fields[0],
			Secure: strings.EqualFold(fields[3], "TRUE"),
		}
		if expiry > 0 {
			cookie.Expires = time.Unix(expiry, 0)
		}
		byHost[domain] = append(byHost[domain], cookie)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(byHost) == 0 {
		return nil, fmt.Errorf("no cookies found in %s", path)
	}

	for host, cookies := range byHost {
		jar.SetCookies(&url.URL{Scheme: "https", Host: host, Path: "/"}, cookies)
	}
	return jar, nil
}
