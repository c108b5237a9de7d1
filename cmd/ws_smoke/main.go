package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"taskshare/internal/db"
	"taskshare/internal/domain"
	"taskshare/internal/repository"
	"taskshare/internal/service"
)

// Smoke test for the live event stream against a running server: seeds an
// owner and a grantee, subscribes the grantee over /ws, then drives task
// mutations over HTTP as the owner and prints what the grantee receives.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	users := repository.NewUserRepository(pool)
	ctx := context.Background()

	owner := ensureUser(ctx, users, "smoke-owner")
	grantee := ensureUser(ctx, users, "smoke-grantee")

	tokens := service.NewTokenService(secret, os.Getenv("JWT_ALGORITHM"), time.Hour)
	ownerToken, err := tokens.Generate(owner.Username)
	if err != nil {
		log.Fatalf("generate owner token: %v", err)
	}
	granteeToken, err := tokens.Generate(grantee.Username)
	if err != nil {
		log.Fatalf("generate grantee token: %v", err)
	}

	// 127.0.0.1 to prefer IPv4
	wsURL := fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s", port, granteeToken)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial ws: %v", err)
	}
	defer conn.Close()

	base := fmt.Sprintf("http://127.0.0.1:%s", port)

	var task struct {
		ID int64 `json:"id"`
	}
	post(base+"/tasks/", ownerToken, map[string]string{
		"title": "smoke", "description": "smoke task",
	}, &task)
	post(fmt.Sprintf("%s/tasks/%d/permissions", base, task.ID), ownerToken, map[string]any{
		"user_id": grantee.ID, "can_read": true,
	}, nil)

	// a task update after the grant must reach the grantee too
	patchReq, _ := http.NewRequest(http.MethodPatch,
		fmt.Sprintf("%s/tasks/%d", base, task.ID),
		bytes.NewReader([]byte(`{"title":"smoke updated"}`)))
	patchReq.Header.Set("Content-Type", "application/json")
	patchReq.Header.Set("Authorization", "Bearer "+ownerToken)
	if _, err := http.DefaultClient.Do(patchReq); err != nil {
		log.Fatalf("patch task: %v", err)
	}

	// the grant notification and the update should now arrive
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for i := 0; i < 2; i++ {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("read event: %v", err)
		}
		log.Printf("event: %s", payload)
	}

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/tasks/%d", base, task.ID), nil)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	if _, err := http.DefaultClient.Do(req); err != nil {
		log.Fatalf("delete task: %v", err)
	}

	log.Println("ws smoke finished ok")
}

func ensureUser(ctx context.Context, users *repository.UserRepository, username string) *domain.User {
	u, err := users.GetByUsername(ctx, username)
	if errors.Is(err, domain.ErrNotFound) {
		hash, err := service.HashPassword("smoke-password")
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		u = &domain.User{Username: username, HashedPassword: hash}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("create %s: %v", username, err)
		}
	} else if err != nil {
		log.Fatalf("get %s: %v", username, err)
	}
	return u
}

func post(url, token string, body any, out any) {
	b, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		log.Fatalf("POST %s: status %d", url, resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatalf("decode response: %v", err)
		}
	}
}
