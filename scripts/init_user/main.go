package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/newsdesk/internal/config"
	"github.com/newsdesk/internal/db"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "admin", "账号名")
	password := flag.String("password", "", "初始密码，必填")
	role := flag.String("role", db.RoleSuperAdmin, "角色：writer / admin / superadmin")
	flag.Parse()

	if *password == "" {
		log.Fatal("password is required")
	}

	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	// 检查是否已存在同名用户
	var count int64
	db.DB.Model(&db.User{}).Where("username = ?", *username).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，无需初始化")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("密码加密失败:", err)
	}

	user := db.User{Username: *username, Password: string(hashedPassword), Role: *role}
	if err := db.DB.Create(&user).Error; err != nil {
		log.Fatal("创建用户失败:", err)
	}

	fmt.Printf("用户创建成功: %s (%s)\n", user.Username, user.Role)
}
