package server

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResp struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type generateAudioReq struct {
	Text string `json:"text"`
}
