package main

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 200 * time.Millisecond

// watchManifest 监听清单文件的变更并在每次写入后重新执行清单。
// 许多编辑器通过写临时文件再改名的方式保存，因此监听的是所在目录
// 而不是文件本身。
func watchManifest(path string, global any) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听器失败: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("监听目录 %s 失败: %w", filepath.Dir(target), err)
	}
	log.Printf("监听 %s 中，按 Ctrl+C 退出", target)

	debounce := time.NewTimer(debounceDelay)
	debounce.Stop()
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(debounceDelay)
		case <-debounce.C:
			if err := runManifest(target, global); err != nil {
				log.Printf("重新生成失败: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("监听出错: %v", err)
		}
	}
}
