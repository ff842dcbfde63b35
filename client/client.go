package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	AuthPath  = "/webapi/auth.cgi"
	EntryPath = "/webapi/entry.cgi"

	ApiAuth        = "SYNO.API.Auth"
	ApiInformation = "SYNO.DSM.Info"
	ApiUtilization = "SYNO.Core.System.Utilization"
	ApiStorage     = "SYNO.Storage.CGI.Storage"
	ApiShare       = "SYNO.Core.Share"

	SessionName = "DSMExporter"

	authVersion = 3

	// Result codes reported to the RequestObserver in addition to DSM codes.
	ResultSuccess   = "success"
	ResultTransport = "transport"
	ResultDecode    = "decode"
)

// RequestObserver is notified after every request to the DSM Web API.
type RequestObserver interface {
	ObserveRequest(api, method, result string, duration time.Duration)
}

type ClientOpts struct {
	Host      string
	Port      int
	Username  string
	Password  string
	UseTLS    bool
	VerifyTLS bool
	Timeout   time.Duration

	Observer RequestObserver
	Logger   logrus.FieldLogger
}

type Client struct {
	opts       ClientOpts
	baseURL    string
	httpClient *http.Client
	logger     logrus.FieldLogger

	lock sync.RWMutex
	sid  string

	Information InformationOperations
	Utilization UtilizationOperations
	Storage     StorageOperations
	Share       ShareOperations
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code int `json:"code"`
	} `json:"error,omitempty"`
}

func NewClient(opts *ClientOpts) (*Client, error) {
	if opts == nil {
		return nil, errors.New("client options are required")
	}

	baseURL, err := BuildBaseURL(opts.Host, opts.Port, opts.UseTLS)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !opts.VerifyTLS} // nolint: gosec

	c := &Client{
		opts:    *opts,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		logger: logger.WithField("dsm", baseURL),
	}
	c.Information = newInformationClient(c)
	c.Utilization = newUtilizationClient(c)
	c.Storage = newStorageClient(c)
	c.Share = newShareClient(c)

	return c, nil
}

// BuildBaseURL accepts a bare host or a host carrying its own http:// or
// https:// scheme, which then takes precedence over useTLS.
func BuildBaseURL(host string, port int, useTLS bool) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", errors.New("host is required")
	}
	if port < 1 || port > 65535 {
		return "", errors.Errorf("invalid port %v", port)
	}

	scheme := "http"
	if useTLS {
		scheme = "https"
	}
	if strings.Contains(host, "://") {
		u, err := url.Parse(host)
		if err != nil {
			return "", errors.Wrapf(err, "invalid host %v", host)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return "", errors.Errorf("unsupported scheme %v in host %v", u.Scheme, host)
		}
		scheme = u.Scheme
		host = u.Hostname()
	}
	host = strings.TrimSuffix(host, "/")

	return (&url.URL{Scheme: scheme, Host: net.JoinHostPort(host, strconv.Itoa(port))}).String(), nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) session() string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.sid
}

// Login opens a DSM session. A rejected login is an AuthenticationError.
func (c *Client) Login(ctx context.Context) error {
	params := url.Values{}
	params.Set("account", c.opts.Username)
	params.Set("passwd", c.opts.Password)
	params.Set("session", SessionName)
	params.Set("format", "sid")

	var data struct {
		Sid string `json:"sid"`
	}
	env, err := c.call(ctx, AuthPath, ApiAuth, authVersion, "login", params)
	if err != nil {
		return errors.Wrapf(err, "failed to log in to %v", c.baseURL)
	}
	if !env.Success {
		code := 0
		if env.Error != nil {
			code = env.Error.Code
		}
		return newAuthenticationError(code)
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Sid == "" {
		return errors.Errorf("login to %v returned no session id", c.baseURL)
	}

	c.lock.Lock()
	c.sid = data.Sid
	c.lock.Unlock()

	c.logger.Infof("Logged in as %v", c.opts.Username)
	return nil
}

func (c *Client) Logout(ctx context.Context) error {
	if c.session() == "" {
		return nil
	}

	params := url.Values{}
	params.Set("session", SessionName)
	env, err := c.call(ctx, AuthPath, ApiAuth, authVersion, "logout", params)
	if err != nil {
		return errors.Wrapf(err, "failed to log out from %v", c.baseURL)
	}

	c.lock.Lock()
	c.sid = ""
	c.lock.Unlock()

	if !env.Success {
		code := 0
		if env.Error != nil {
			code = env.Error.Code
		}
		return &ApiError{Api: ApiAuth, Method: "logout", Code: code}
	}
	return nil
}

// doEntry calls an entry.cgi API and decodes its data into out. Every
// failure is returned as a FetchError.
func (c *Client) doEntry(ctx context.Context, api string, version int, method string, params url.Values, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}

	env, err := c.call(ctx, EntryPath, api, version, method, params)
	if err != nil {
		return NewFetchError(api, method, err)
	}
	if !env.Success {
		code := 0
		if env.Error != nil {
			code = env.Error.Code
		}
		return NewFetchError(api, method, &ApiError{Api: api, Method: method, Code: code})
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return NewFetchError(api, method, errors.Wrap(err, "malformed response data"))
	}
	return nil
}

func (c *Client) call(ctx context.Context, path, api string, version int, method string, params url.Values) (*envelope, error) {
	params.Set("api", api)
	params.Set("version", strconv.Itoa(version))
	params.Set("method", method)
	if sid := c.session(); sid != "" {
		params.Set("_sid", sid)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(api, method, ResultTransport, time.Since(start))
		return nil, errors.Wrapf(err, "failed to send %v %v request", api, method)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	duration := time.Since(start)
	if err != nil {
		c.observe(api, method, ResultTransport, duration)
		return nil, errors.Wrapf(err, "failed to read %v %v response", api, method)
	}

	if resp.StatusCode != http.StatusOK {
		c.observe(api, method, fmt.Sprintf("http_%d", resp.StatusCode), duration)
		return nil, &ApiError{Api: api, Method: method, StatusCode: resp.StatusCode}
	}

	env := &envelope{}
	if err := json.Unmarshal(body, env); err != nil {
		c.observe(api, method, ResultDecode, duration)
		return nil, errors.Wrapf(err, "malformed %v %v response", api, method)
	}

	result := ResultSuccess
	if !env.Success {
		result = "unknown"
		if env.Error != nil {
			result = strconv.Itoa(env.Error.Code)
		}
	}
	c.observe(api, method, result, duration)
	c.logger.Debugf("%v %v returned %v in %v", api, method, result, duration)

	return env, nil
}

func (c *Client) observe(api, method, result string, duration time.Duration) {
	if c.opts.Observer == nil {
		return
	}
	c.opts.Observer.ObserveRequest(api, method, result, duration)
}
