package forum

// TopicRequest 发帖参数
type TopicRequest struct {
	UID       int      `json:"_uid,omitempty"` // 以该用户身份发帖，需要 master token
	CID       int      `json:"cid"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	Timestamp int64    `json:"timestamp,omitempty"`
}

// Topic 论坛返回的话题
type Topic struct {
	TID     int    `json:"tid"`
	CID     int    `json:"cid"`
	Slug    string `json:"slug"`
	MainPID int    `json:"mainPid"`
}

// Category 论坛版块
type Category struct {
	CID       int    `json:"cid"`
	Name      string `json:"name"`
	ParentCID int    `json:"parentCid"`
}

// User 论坛用户
type User struct {
	UID      int    `json:"uid"`
	Username string `json:"username"`
}

// envelope 写接口统一响应格式
type envelope[T any] struct {
	Status struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
	Response T `json:"response"`
}
