package fake

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

const (
	DefaultUsername = "admin"
	DefaultPassword = "secret"

	apiInformation = "SYNO.DSM.Info"
	apiUtilization = "SYNO.Core.System.Utilization"
	apiStorage     = "SYNO.Storage.CGI.Storage"
	apiShare       = "SYNO.Core.Share"
)

var (
	ShareDataUUID    = uuid.NewSHA1(uuid.NameSpaceURL, []byte("dsm://share/data")).String()
	ShareUSBCopyUUID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("dsm://share/usbshare1")).String()
)

// DSM is an in-memory DiskStation Web API. Its default data holds three
// volumes, two disks, one share with usage accounting plus one without, and
// a network total that reports download but no upload.
type DSM struct {
	Server *httptest.Server

	lock        sync.Mutex
	username    string
	password    string
	sid         string
	responses   map[string]interface{}
	failures    map[string]int
	statusCodes map[string]int
	requests    map[string]int
}

func NewDSM() *DSM {
	d := &DSM{
		username: DefaultUsername,
		password: DefaultPassword,
		sid:      "fake-session-" + uuid.NewString(),
		responses: map[string]interface{}{
			apiInformation: DefaultInformation(),
			apiUtilization: DefaultUtilization(),
			apiStorage:     DefaultStorage(),
			apiShare:       DefaultShares(),
		},
		failures:    map[string]int{},
		statusCodes: map[string]int{},
		requests:    map[string]int{},
	}
	d.Server = httptest.NewServer(http.HandlerFunc(d.serveHTTP))
	return d
}

func DefaultInformation() map[string]interface{} {
	return map[string]interface{}{
		"model":            "DS918+",
		"ram":              4096,
		"serial":           "1780PDN123456",
		"temperature":      42,
		"temperature_warn": false,
		"uptime":           123456,
		"version":          "42962",
		"version_string":   "DSM 7.1.1-42962 Update 6",
	}
}

func DefaultUtilization() map[string]interface{} {
	return map[string]interface{}{
		"cpu": map[string]interface{}{
			"user_load":   5,
			"system_load": 3,
			"other_load":  2,
		},
		"memory": map[string]interface{}{
			"real_usage":  50,
			"memory_size": 1953125, // KB
		},
		"network": []interface{}{
			map[string]interface{}{"device": "total", "rx": 2048},
			map[string]interface{}{"device": "eth0", "rx": 2048, "tx": 512},
		},
	}
}

func DefaultStorage() map[string]interface{} {
	return map[string]interface{}{
		"volumes": []interface{}{
			volume("volume_1", "normal", "2000000000000", "1000000000000"),
			volume("volume_2", "attention", "1000000000000", "10"),
			volume("volume_3", "data_scrubbing", "500000000000", "250000000000"),
		},
		"disks": []interface{}{
			map[string]interface{}{
				"id": "sata1", "name": "Drive 1", "model": "WD40EFRX",
				"smart_status": "normal", "status": "normal", "temp": 35,
			},
			map[string]interface{}{
				"id": "sata2", "name": "Drive 2", "model": "WD40EFRX",
				"smart_status": "failing", "status": "crashed", "temp": 38,
			},
		},
	}
}

func DefaultShares() map[string]interface{} {
	return map[string]interface{}{
		"shares": []interface{}{
			map[string]interface{}{
				"uuid": ShareDataUUID, "name": "data", "vol_path": "/volume1",
				"share_quota_used": 1024, "quota_value": 2048,
			},
			map[string]interface{}{
				"uuid": ShareUSBCopyUUID, "name": "usbshare1", "vol_path": "/volumeUSB1/usbshare",
			},
		},
		"total": 2,
	}
}

func volume(id, status, total, used string) map[string]interface{} {
	return map[string]interface{}{
		"id":     id,
		"status": status,
		"size":   map[string]interface{}{"total": total, "used": used},
	}
}

func (d *DSM) Close() {
	d.Server.Close()
}

func (d *DSM) Host() string {
	u, _ := url.Parse(d.Server.URL)
	return u.Hostname()
}

func (d *DSM) Port() int {
	u, _ := url.Parse(d.Server.URL)
	_, port, _ := net.SplitHostPort(u.Host)
	p, _ := strconv.Atoi(port)
	return p
}

// SetResponse replaces the data returned by api.
func (d *DSM) SetResponse(api string, data interface{}) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.responses[api] = data
}

// FailWith makes api answer success=false with the DSM error code, or
// clears the failure when code is 0.
func (d *DSM) FailWith(api string, code int) {
	d.lock.Lock()
	defer d.lock.Unlock()
	if code == 0 {
		delete(d.failures, api)
		return
	}
	d.failures[api] = code
}

// RespondWithStatus makes api answer with a bare HTTP status.
func (d *DSM) RespondWithStatus(api string, status int) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.statusCodes[api] = status
}

func (d *DSM) RequestCount(api string) int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.requests[api]
}

func (d *DSM) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	api := r.Form.Get("api")

	d.lock.Lock()
	defer d.lock.Unlock()
	d.requests[api]++

	if status, ok := d.statusCodes[api]; ok {
		w.WriteHeader(status)
		return
	}
	if code, ok := d.failures[api]; ok {
		writeJSON(w, map[string]interface{}{"success": false, "error": map[string]interface{}{"code": code}})
		return
	}

	switch r.URL.Path {
	case "/webapi/auth.cgi":
		d.serveAuth(w, r)
	case "/webapi/entry.cgi":
		if r.Form.Get("_sid") != d.sid {
			writeJSON(w, map[string]interface{}{"success": false, "error": map[string]interface{}{"code": 119}})
			return
		}
		data, ok := d.responses[api]
		if !ok {
			writeJSON(w, map[string]interface{}{"success": false, "error": map[string]interface{}{"code": 102}})
			return
		}
		if raw, ok := data.(string); ok {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(raw))
			return
		}
		writeJSON(w, map[string]interface{}{"success": true, "data": data})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (d *DSM) serveAuth(w http.ResponseWriter, r *http.Request) {
	switch r.Form.Get("method") {
	case "login":
		if r.Form.Get("account") != d.username || r.Form.Get("passwd") != d.password {
			writeJSON(w, map[string]interface{}{"success": false, "error": map[string]interface{}{"code": 400}})
			return
		}
		writeJSON(w, map[string]interface{}{"success": true, "data": map[string]interface{}{"sid": d.sid}})
	case "logout":
		writeJSON(w, map[string]interface{}{"success": true})
	default:
		writeJSON(w, map[string]interface{}{"success": false, "error": map[string]interface{}{"code": 103}})
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
