package bili

import "encoding/json"

// DeactivatedName is the literal display name the platform substitutes for
// a deactivated account.
const DeactivatedName = "账号已注销"

// envelope is the common response wrapper. The audio service uses "msg"
// where the main API uses "message".
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

func (e *envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Msg
}

// Response payloads decode with explicit optional fields: anything the
// upstream drops or renames decodes to its zero value rather than failing,
// so schema drift degrades to "unknown" instead of aborting a run.

type relationUser struct {
	Mid   int64  `json:"mid"`
	Uname string `json:"uname"`
}

type followingsData struct {
	List  []relationUser `json:"list"`
	Total int            `json:"total"`
}

type feedData struct {
	Items []feedItem `json:"items"`
}

type feedItem struct {
	Modules struct {
		Author struct {
			PubTs int64 `json:"pub_ts"`
		} `json:"module_author"`
	} `json:"modules"`
}

type videoData struct {
	List struct {
		Vlist []struct {
			Created int64 `json:"created"` // unix seconds
		} `json:"vlist"`
	} `json:"list"`
}

type audioData struct {
	Data []struct {
		Ctime int64 `json:"ctime"` // unix milliseconds
	} `json:"data"`
}

type articleData struct {
	Articles []struct {
		PublishTime int64 `json:"publish_time"` // unix seconds
	} `json:"articles"`
}

type friendsData struct {
	List []relationUser `json:"list"`
}

// Profile is the authenticated account as reported by the nav endpoint.
type Profile struct {
	IsLogin bool   `json:"isLogin"`
	Mid     int64  `json:"mid"`
	Uname   string `json:"uname"`
}
