package stubapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

const ctxUserIDKey = "user_id" // string

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// アクセストークンを発行する。HS256・1時間。
func issueToken(secret string, userID string, email string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// parseToken はJWTを検証してuserIDを返す。
func parseToken(secret string, rawToken string) (string, error) {
	token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("invalid sub")
	}
	return sub, nil
}

// クエリ渡しトークン用のJWT検証ミドルウェア。
// クライアントはaccessToken（注文系だけcustomerAccessToken）で渡してくる。
func AuthToken(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawToken := c.QueryParam("accessToken")
			if rawToken == "" {
				rawToken = c.QueryParam("customerAccessToken")
			}
			//住所の登録・更新はbodyに入れてくる
			if rawToken == "" {
				rawToken = tokenFromBody(c)
			}
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			userID, err := parseToken(secret, rawToken)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(ctxUserIDKey, userID)
			return next(c)
		}
	}
}

// bodyのAccessTokenを覗く。ハンドラが再読みできるようbodyは巻き戻す。
func tokenFromBody(c echo.Context) string {
	req := c.Request()
	if req.Body == nil {
		return ""
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return ""
	}
	req.Body = io.NopCloser(bytes.NewReader(data))

	var probe struct {
		AccessToken string `json:"AccessToken"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return ""
	}
	return probe.AccessToken
}

// ログイン中ユーザーのIDを取り出す。AuthTokenの後でだけ使える。
func currentUserID(c echo.Context) string {
	id, _ := c.Get(ctxUserIDKey).(string)
	return id
}
