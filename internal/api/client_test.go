package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatzone/chatsync/internal/api"
	"github.com/chatzone/chatsync/internal/apperr"
	"github.com/chatzone/chatsync/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tokenHolder struct{ token string }

func (t *tokenHolder) Token() string { return t.token }

func newAuthority(t *testing.T, setup func(*gin.Engine)) (*api.Client, *tokenHolder) {
	t.Helper()
	router := gin.New()
	setup(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	creds := &tokenHolder{}
	return api.NewClient(srv.URL, creds), creds
}

func TestLoginTokenShapes(t *testing.T) {
	user := gin.H{"id": "u1", "nickname": "alice", "email": "alice@example.com"}

	cases := []struct {
		name string
		body gin.H
	}{
		{"bare token string", gin.H{"user": user, "token": "tok-1"}},
		{"nested token object", gin.H{"user": user, "token": gin.H{"token": "tok-1", "type": "bearer"}}},
		{"data envelope", gin.H{"data": gin.H{"user": user, "token": "tok-1"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newAuthority(t, func(r *gin.Engine) {
				r.POST("/login", func(c *gin.Context) {
					var req struct {
						Email    string `json:"email"`
						Password string `json:"password"`
					}
					require.NoError(t, c.BindJSON(&req))
					assert.Equal(t, "alice@example.com", req.Email)
					c.JSON(http.StatusOK, tc.body)
				})
			})

			res, err := client.Login(context.Background(), "alice@example.com", "secret")
			require.NoError(t, err)
			assert.Equal(t, "tok-1", res.Token)
			assert.Equal(t, domain.UserID("u1"), res.User.ID)
		})
	}

	t.Run("missing token rejected", func(t *testing.T) {
		client, _ := newAuthority(t, func(r *gin.Engine) {
			r.POST("/login", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"user": user})
			})
		})
		_, err := client.Login(context.Background(), "alice@example.com", "secret")
		assert.Equal(t, apperr.CodeInvalidResponse, apperr.CodeOf(err))
	})
}

func TestResponseUnwrapChain(t *testing.T) {
	channels := []gin.H{{"id": "c1", "name": "general", "type": "public"}}

	cases := []struct {
		name string
		body any
	}{
		{"data envelope", gin.H{"data": channels}},
		{"type-named key", gin.H{"channels": channels}},
		{"bare body", channels},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newAuthority(t, func(r *gin.Engine) {
				r.GET("/channels", func(c *gin.Context) { c.JSON(http.StatusOK, tc.body) })
			})
			list, err := client.ListChannels(context.Background())
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, domain.ChannelName("general"), list[0].Name)
		})
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		body   gin.H
		code   apperr.Code
	}{
		{http.StatusNotFound, gin.H{"message": "no such channel"}, apperr.CodeNotFound},
		{http.StatusUnauthorized, gin.H{"error": "bad credentials"}, apperr.CodeNotAuthorized},
		{http.StatusForbidden, gin.H{"message": "members only"}, apperr.CodeNotAuthorized},
		{http.StatusConflict, gin.H{"message": "name taken"}, apperr.CodeAlreadyExists},
		{http.StatusBadRequest, gin.H{"message": "empty name"}, apperr.CodeInvalidArgument},
		{http.StatusInternalServerError, gin.H{}, apperr.CodeTransient},
	}

	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			client, _ := newAuthority(t, func(r *gin.Engine) {
				r.GET("/channels/c1", func(c *gin.Context) { c.JSON(tc.status, tc.body) })
			})
			_, err := client.GetChannel(context.Background(), "c1")
			assert.Equal(t, tc.code, apperr.CodeOf(err))
		})
	}

	t.Run("unreachable authority is transient", func(t *testing.T) {
		creds := &tokenHolder{}
		client := api.NewClient("http://127.0.0.1:1", creds)
		_, err := client.ListChannels(context.Background())
		assert.Equal(t, apperr.CodeTransient, apperr.CodeOf(err))
	})
}

func TestCredentialReadAtSendTime(t *testing.T) {
	var seen []string
	client, creds := newAuthority(t, func(r *gin.Engine) {
		r.GET("/channels", func(c *gin.Context) {
			seen = append(seen, c.GetHeader("Authorization"))
			c.JSON(http.StatusOK, gin.H{"channels": []gin.H{}})
		})
	})

	_, err := client.ListChannels(context.Background())
	require.NoError(t, err)
	creds.token = "tok-2"
	_, err = client.ListChannels(context.Background())
	require.NoError(t, err)

	require.Len(t, seen, 2)
	assert.Empty(t, seen[0])
	assert.Equal(t, "Bearer tok-2", seen[1])
}

func TestMessageEndpoints(t *testing.T) {
	t.Run("send returns canonical message", func(t *testing.T) {
		client, _ := newAuthority(t, func(r *gin.Engine) {
			r.POST("/channels/c1/messages", func(c *gin.Context) {
				var req struct {
					Content string `json:"content"`
				}
				require.NoError(t, c.BindJSON(&req))
				c.JSON(http.StatusCreated, gin.H{"message": gin.H{
					"id":         "m1",
					"channel_id": "c1",
					"author_id":  "u1",
					"content":    req.Content,
					"created_at": "2025-06-01T12:00:00Z",
				}})
			})
		})
		msg, err := client.SendMessage(context.Background(), "c1", "hello")
		require.NoError(t, err)
		assert.Equal(t, domain.MessageID("m1"), msg.ID)
		assert.Equal(t, "hello", msg.Content)
		assert.False(t, msg.CreatedAt.IsZero())
	})

	t.Run("delete tolerates empty body", func(t *testing.T) {
		client, _ := newAuthority(t, func(r *gin.Engine) {
			r.DELETE("/messages/m1", func(c *gin.Context) { c.Status(http.StatusNoContent) })
		})
		msg, err := client.DeleteMessage(context.Background(), "m1")
		require.NoError(t, err)
		assert.Nil(t, msg)
	})

	t.Run("paged load carries cursor fields", func(t *testing.T) {
		client, _ := newAuthority(t, func(r *gin.Engine) {
			r.GET("/channels/c1/messages", func(c *gin.Context) {
				assert.Equal(t, "2", c.Query("page"))
				c.JSON(http.StatusOK, gin.H{
					"messages":  []gin.H{{"id": "m1", "channel_id": "c1", "author_id": "u1", "content": "old", "created_at": "2025-06-01T12:00:00Z"}},
					"page":      2,
					"has_more":  true,
					"page_size": 50,
				})
			})
		})
		page, err := client.LoadMessages(context.Background(), "c1", 2)
		require.NoError(t, err)
		require.Len(t, page.Messages, 1)
		assert.Equal(t, 2, page.Page)
		assert.True(t, page.HasMore)
	})

	t.Run("search escapes the query", func(t *testing.T) {
		client, _ := newAuthority(t, func(r *gin.Engine) {
			r.GET("/channels/c1/messages/search", func(c *gin.Context) {
				assert.Equal(t, "hello world&x", c.Query("q"))
				c.JSON(http.StatusOK, gin.H{"messages": []gin.H{}})
			})
		})
		_, err := client.SearchMessages(context.Background(), "c1", "hello world&x", 1)
		require.NoError(t, err)
	})
}

func TestCleanup(t *testing.T) {
	client, _ := newAuthority(t, func(r *gin.Engine) {
		r.POST("/channels/cleanup", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"deleted": []string{"c9", "c10"}})
		})
	})
	deleted, err := client.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.ChannelID{"c9", "c10"}, deleted)
}
